package main

import (
	"os"

	"github.com/scan-io-git/pfast/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}

package exec

import (
	"fmt"
	"strings"
)

// validateExecArgs validates the build command line and the post-processing switches.
func validateExecArgs(options *RunOptionsExec, args []string) error {
	var issues []string

	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		issues = append(issues, "missing build command")
	}
	if options.MaxPaths < 0 {
		issues = append(issues, "'max-paths' cannot be negative")
	}
	if options.MaxTime < 0 {
		issues = append(issues, "'max-time' cannot be negative")
	}

	if len(issues) > 0 {
		return fmt.Errorf("%s", strings.Join(issues, "; "))
	}
	return nil
}

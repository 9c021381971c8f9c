package sorter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/internal/runner"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// Spec describes one sort pass over a line file.
type Spec struct {
	// Pass numbers the pass in logs and errors.
	Pass int
	// KeyOffset is the 0-based byte offset where the sort key starts.
	KeyOffset int
	// Unique keeps only the first line of every group of equal keys.
	Unique bool
}

// Sorter orders the lines of inputPath into outputPath. Sorting is stable: lines
// with equal keys keep their input order.
type Sorter interface {
	Sort(inputPath, outputPath string, spec Spec) error
}

// CommandRunner launches the external sort utility.
type CommandRunner interface {
	Run(c runner.Command) (runner.Result, error)
}

// InProcess sorts line files in memory.
type InProcess struct {
	logger hclog.Logger
}

// NewInProcess returns the in-memory Sorter.
func NewInProcess(logger hclog.Logger) *InProcess {
	return &InProcess{logger: logger}
}

// Sort implements Sorter. Keys are compared byte by byte.
func (s *InProcess) Sort(inputPath, outputPath string, spec Spec) error {
	lines, err := readLines(inputPath)
	if err != nil {
		return err
	}

	key := func(line string) string {
		if spec.KeyOffset >= len(line) {
			return ""
		}
		return line[spec.KeyOffset:]
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return key(lines[i]) < key(lines[j])
	})

	if spec.Unique {
		lines = uniqueByKey(lines, key)
	}
	s.logger.Debug("sort pass finished", "pass", spec.Pass, "offset", spec.KeyOffset, "unique", spec.Unique, "lines", len(lines))

	err = files.WriteFileAtomic(outputPath, func(w io.Writer) error {
		for _, line := range lines {
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &defect.FilesystemError{Op: "write", Path: outputPath, Err: err}
	}
	return nil
}

// uniqueByKey keeps the first line of every run of equal keys. On a stably sorted
// input that is the line that came first in the original file.
func uniqueByKey(lines []string, key func(string) string) []string {
	out := lines[:0]
	for i, line := range lines {
		if i > 0 && key(line) == key(lines[i-1]) {
			continue
		}
		out = append(out, line)
	}
	return out
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &defect.FilesystemError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &defect.FilesystemError{Op: "read", Path: path, Err: err}
	}
	return lines, nil
}

// External shells out to a sortFile-compatible utility:
//
//	TOOL [/+COLUMN] [/UNIQ] INPUT OUTPUT
//
// where COLUMN is the 1-based column the key starts at.
type External struct {
	tool   string
	runner CommandRunner
	logger hclog.Logger
}

// NewExternal returns a Sorter backed by the utility at tool.
func NewExternal(tool string, r CommandRunner, logger hclog.Logger) *External {
	return &External{tool: tool, runner: r, logger: logger}
}

// Args returns the command line for one pass.
func (s *External) Args(inputPath, outputPath string, spec Spec) []string {
	var args []string
	if spec.KeyOffset > 0 {
		args = append(args, "/+"+strconv.Itoa(spec.KeyOffset+1))
	}
	if spec.Unique {
		args = append(args, "/UNIQ")
	}
	return append(args, inputPath, outputPath)
}

// Sort implements Sorter. A non-zero exit status is returned as a SortToolError.
func (s *External) Sort(inputPath, outputPath string, spec Spec) error {
	s.logger.Debug("running external sort", "tool", s.tool, "pass", spec.Pass, "input", inputPath)

	res, err := s.runner.Run(runner.Command{Name: s.tool, Args: s.Args(inputPath, outputPath, spec)})
	if err != nil {
		return &defect.SortToolError{Tool: s.tool, Pass: spec.Pass, Output: res.Output, Err: err}
	}
	if res.ExitCode != 0 {
		s.logger.Error(fmt.Sprintf("could not perform removedups, %s returned '%d'", s.tool, res.ExitCode), "pass", spec.Pass)
		return &defect.SortToolError{Tool: s.tool, Pass: spec.Pass, ExitCode: res.ExitCode, Output: res.Output}
	}
	return nil
}

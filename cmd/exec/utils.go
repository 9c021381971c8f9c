package exec

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pfast/cmd/list"
	"github.com/scan-io-git/pfast/cmd/reset"
	"github.com/scan-io-git/pfast/internal/dedup"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/internal/filter"
	"github.com/scan-io-git/pfast/internal/runner"

	filtercmd "github.com/scan-io-git/pfast/cmd/filter"
)

type buildRunner interface {
	Run(c runner.Command) (runner.Result, error)
}

type remover interface {
	RemoveDuplicates(opts dedup.Options) (int, error)
}

// session runs one build and the post-processing steps selected by its options.
type session struct {
	options       *RunOptionsExec
	log           string
	coverage      string
	coverageCodes []string
	preset        filter.Preset
	env           []string
	runner        buildRunner
	deduper       remover
	out           io.Writer
	logger        hclog.Logger
}

// RunResult summarises one exec run.
type RunResult struct {
	Command       []string      `json:"command"`
	Log           string        `json:"log"`
	Status        int           `json:"status"`
	DefectsBefore int           `json:"defects_before"`
	DefectsAfter  int           `json:"defects_after"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
}

// run returns the outcome of the build. Errors are failures of pfast's own steps.
func (s *session) run(build []string) (RunResult, error) {
	result := RunResult{Command: build, Log: s.log, StartedAt: time.Now().UTC()}
	status, err := s.steps(build, &result)
	result.Status = status
	result.Duration = time.Since(result.StartedAt)
	return result, err
}

func (s *session) steps(build []string, result *RunResult) (int, error) {
	dryRun := s.options.DryRun

	if s.options.Reset {
		if dryRun {
			fmt.Fprintln(s.out, "<Reset the defect log>")
		} else if err := reset.Run(s.log); err != nil {
			return 0, err
		}
	}

	before := defectlog.CountDefects(s.log)
	result.DefectsBefore = before

	status := 0
	if dryRun {
		fmt.Fprintln(s.out, strings.Join(build, " "))
	} else {
		built, err := s.runner.Run(runner.Command{Name: build[0], Args: build[1:], Env: s.env})
		if err != nil {
			return 0, fmt.Errorf("build command: %w", err)
		}
		status = built.ExitCode
		if status != 0 {
			s.logger.Error("the build command returned a non-zero status", "command", build[0], "status", status)
		}
	}

	if s.options.Filter {
		if dryRun {
			fmt.Fprintln(s.out, "<filter the log file>")
		} else if exists(s.log) {
			s.logger.Info("filtering the defect log", "filter", s.preset.Name)
			if _, err := filtercmd.Run(s.log, s.log, s.preset); err != nil {
				return status, err
			}
		}
	}

	if s.options.RemoveDups {
		if dryRun {
			fmt.Fprintln(s.out, "<Remove duplicate defects>")
		} else if exists(s.log) {
			s.logger.Info("removing duplicate defects from the log")
			_, err := s.deduper.RemoveDuplicates(dedup.Options{
				Inputs:         []string{s.log},
				Output:         s.log,
				CoverageOutput: s.coverage,
				CoverageCodes:  s.coverageCodes,
			})
			if err != nil {
				return status, err
			}
		}
	}

	after := defectlog.CountDefects(s.log)
	result.DefectsAfter = after

	if s.options.List {
		if dryRun {
			fmt.Fprintln(s.out, "<List the defect log as text>")
		} else if exists(s.log) {
			doc, err := defectlog.LoadDocument(s.log)
			if err != nil {
				return status, err
			}
			if err := list.WriteListing(s.out, doc, s.preset); err != nil {
				return status, err
			}
		}
	}

	if !dryRun {
		s.reportNewDefects(before, after)
	}
	return status, nil
}

func (s *session) reportNewDefects(before, after int) {
	switch {
	case after > before:
		fmt.Fprintf(s.out, "PREfast reported %d defects during execution of the command.\n", after-before)
		if !s.options.List {
			fmt.Fprintln(s.out, "Enter 'pfast list' to list the defect log as text within the console.")
		}
	case after == before:
		fmt.Fprintln(s.out, "No defects were detected during execution of the command.")
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

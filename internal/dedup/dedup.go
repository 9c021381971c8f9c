package dedup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/internal/sorter"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

// Options describe one dedup run.
type Options struct {
	// Inputs are the defect documents to merge, in order. Output may be one of them.
	Inputs []string
	Output string
	// CoverageOutput enables the coverage document when set.
	CoverageOutput string
	// CoverageCodes overrides the reserved coverage codes.
	CoverageCodes []string
}

// Deduper removes duplicate defects from one or more merged defect logs.
// Every call keeps its own temporary files and coverage counter.
type Deduper struct {
	sorter  sorter.Sorter
	tempDir string
	logger  hclog.Logger
}

// New creates a Deduper. Temporary files go to tempDir, or the system temp folder when empty.
func New(s sorter.Sorter, tempDir string, logger hclog.Logger) *Deduper {
	return &Deduper{sorter: s, tempDir: tempDir, logger: logger}
}

// RemoveDuplicates merges opts.Inputs into opts.Output, keeping the first occurrence of every
// group of duplicate records and renumbering the survivors 1..N. It returns N.
func (d *Deduper) RemoveDuplicates(opts Options) (int, error) {
	if len(opts.Inputs) == 0 {
		return 0, fmt.Errorf("no input defect logs")
	}
	if opts.Output == "" {
		return 0, fmt.Errorf("no output defect log")
	}

	run := &runState{id: uuid.New().String(), tempDir: d.tempDir}
	defer run.cleanup(d.logger)

	logger := d.logger.With("run", run.id)
	logger.Debug("removing duplicates", "inputs", opts.Inputs, "output", opts.Output)

	var coverage *defectlog.Coverage
	if opts.CoverageOutput != "" {
		coverage = defectlog.NewCoverage(opts.CoverageCodes...)
	}

	flatPath := run.temp("flat")
	total, err := flattenInputs(flatPath, opts.Inputs, coverage)
	if err != nil {
		return 0, err
	}
	if coverage != nil {
		if err := coverage.Save(opts.CoverageOutput); err != nil {
			return 0, err
		}
		logger.Debug("coverage document written", "path", opts.CoverageOutput, "records", coverage.Document().Len())
	}

	uniquePath := run.temp("unique")
	if err := d.sorter.Sort(flatPath, uniquePath, sorter.Spec{Pass: 1, KeyOffset: defectlog.DedupKeyWidth, Unique: true}); err != nil {
		return 0, fmt.Errorf("removedups: %w", err)
	}

	orderedPath := run.temp("ordered")
	if err := d.sorter.Sort(uniquePath, orderedPath, sorter.Spec{Pass: 2}); err != nil {
		return 0, fmt.Errorf("removedups: %w", err)
	}

	renumberedPath := run.temp("renumbered")
	count, err := renumber(orderedPath, renumberedPath)
	if err != nil {
		return 0, err
	}

	if _, err := defectlog.UnflattenFile(renumberedPath, opts.Output); err != nil {
		return 0, err
	}

	logger.Info("duplicates removed", "records", total, "unique", count, "output", opts.Output)
	return count, nil
}

// runState owns the temporary files of one RemoveDuplicates call.
type runState struct {
	id      string
	tempDir string
	temps   []string
}

func (r *runState) temp(stage string) string {
	path := files.TempPath(r.tempDir, "pfast-"+stage, ".txt")
	r.temps = append(r.temps, path)
	return path
}

func (r *runState) cleanup(logger hclog.Logger) {
	for _, path := range r.temps {
		if err := files.RemoveIfExists(path); err != nil {
			logger.Warn("failed to delete temporary file", "path", path, "error", err)
		}
	}
}

// flattenInputs writes every input in dedup mode to flatPath and returns the record count.
func flattenInputs(flatPath string, inputs []string, coverage *defectlog.Coverage) (int, error) {
	file, err := os.OpenFile(flatPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return 0, &defect.FilesystemError{Op: "create", Path: flatPath, Err: err}
	}

	flattener := defectlog.NewFlattener(file, defectlog.FlattenOptions{
		Dedup:    true,
		Coverage: coverage,
		SinkName: flatPath,
	})

	total := 0
	for _, input := range inputs {
		n, err := flattener.FlattenFile(input)
		if err != nil {
			file.Close()
			return 0, err
		}
		total += n
	}

	if err := file.Close(); err != nil {
		return 0, &defect.FilesystemError{Op: "close", Path: flatPath, Err: err}
	}
	return total, nil
}

// renumber replaces the dedup key of every line of in with a dense 1-based sequence.
func renumber(in, out string) (int, error) {
	src, err := os.Open(in)
	if err != nil {
		return 0, &defect.FilesystemError{Op: "open", Path: in, Err: err}
	}
	defer src.Close()

	count := 0
	err = files.WriteFileAtomic(out, func(w io.Writer) error {
		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 64*1024), defectlog.MaxLineSize)
		for scanner.Scan() {
			line, err := defectlog.StripDedupKey(scanner.Text(), count+1)
			if err != nil {
				return err
			}
			count++
			if _, err := io.WriteString(w, line+"\n"); err != nil {
				return err
			}
		}
		return scanner.Err()
	})
	if err != nil {
		var malformed *defect.MalformedRecordError
		if errors.As(err, &malformed) {
			return 0, fmt.Errorf("renumber %s: %w", in, err)
		}
		return 0, &defect.FilesystemError{Op: "write", Path: out, Err: err}
	}
	return count, nil
}

package defect

import "fmt"

// DocumentLoadError reports a defect document that could not be read or parsed.
type DocumentLoadError struct {
	Path string
	Err  error
}

func (e *DocumentLoadError) Error() string {
	return fmt.Sprintf("error loading %s: %v", e.Path, e.Err)
}

func (e *DocumentLoadError) Unwrap() error {
	return e.Err
}

// MalformedRecordError reports a flat line that does not follow the fixed-field layout.
// Line is the 1-based line number in the flat file, 0 when unknown.
type MalformedRecordError struct {
	Line   int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed defect record at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed defect record: %s", e.Reason)
}

// SortToolError reports a sort pass that failed, either because the external
// utility exited non-zero or because it could not be started at all.
type SortToolError struct {
	Tool     string
	Pass     int
	ExitCode int
	Output   string
	Err      error
}

func (e *SortToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sort pass %d: %s: %v", e.Pass, e.Tool, e.Err)
	}
	return fmt.Sprintf("sort pass %d: %s returned '%d'", e.Pass, e.Tool, e.ExitCode)
}

func (e *SortToolError) Unwrap() error {
	return e.Err
}

// FilesystemError reports a failed create, write, rename or delete.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

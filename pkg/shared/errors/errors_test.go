package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/pfast/internal/defect"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"No error", nil, ExitOK},
		{"Plain error", stderrors.New("bad switch"), ExitUsage},
		{"Document load", &defect.DocumentLoadError{Path: "a.xml", Err: stderrors.New("EOF")}, ExitBadInput},
		{"Malformed record", fmt.Errorf("unflatten: %w", &defect.MalformedRecordError{Line: 3, Reason: "x"}), ExitBadInput},
		{"Filesystem", &defect.FilesystemError{Op: "rename", Path: "a.xml", Err: stderrors.New("denied")}, ExitFileAccess},
		{"Sort tool status", fmt.Errorf("dedup: %w", &defect.SortToolError{Tool: "sort", Pass: 1, ExitCode: 3}), 3},
		{"Sort tool not started", &defect.SortToolError{Tool: "sort", Pass: 1, Err: stderrors.New("not found")}, ExitUsage},
		{"Explicit status", NewExitStatus(17), 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeFor(tt.err))
		})
	}
}

func TestFromPipelineErrorKeepsCause(t *testing.T) {
	cause := &defect.FilesystemError{Op: "create", Path: "out.xml", Err: stderrors.New("denied")}
	ce := FromPipelineError(cause)

	assert.Equal(t, ExitFileAccess, ce.ExitCode)
	assert.Equal(t, cause.Error(), ce.Error())
	assert.True(t, stderrors.Is(ce, cause))
}

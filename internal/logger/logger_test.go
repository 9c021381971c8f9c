package logger

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"

	"github.com/scan-io-git/pfast/internal/config"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  hclog.Level
	}{
		{"Default", "", "", hclog.Info},
		{"Config level", "", "debug", hclog.Debug},
		{"Env wins over config", "error", "debug", hclog.Error},
		{"Unknown level", "", "loud", hclog.Info},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PFAST_LOG_LEVEL", tt.env)
			cfg := &config.Config{Logger: config.Logger{Level: tt.level}}
			assert.Equal(t, tt.want, determineLogLevel(cfg))
		})
	}

	t.Setenv("PFAST_LOG_LEVEL", "")
	assert.Equal(t, hclog.Info, determineLogLevel(nil))
}

func TestLevelFromVerbosity(t *testing.T) {
	for verbosity, want := range []string{"ERROR", "INFO", "DEBUG", "TRACE"} {
		got, err := LevelFromVerbosity(verbosity)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := LevelFromVerbosity(4)
	assert.Error(t, err)
}

func TestNewLoggerName(t *testing.T) {
	assert.Equal(t, "core-list", NewLogger(&config.Config{}, "core-list").Name())
}

package config_test

import (
	"testing"

	"github.com/m-mizutani/iocost-bot/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{
			name:   "Valid level: debug",
			level:  "debug",
			format: "console",
		},
		{
			name:   "Valid level: DEBUG (case insensitive)",
			level:  "DEBUG",
			format: "console",
		},
		{
			name:   "Valid level: info",
			level:  "info",
			format: "console",
		},
		{
			name:   "Valid level: warn",
			level:  "warn",
			format: "console",
		},
		{
			name:   "Valid level: error",
			level:  "error",
			format: "console",
		},
		{
			name:   "Valid format: json",
			level:  "info",
			format: "json",
		},
		{
			name:   "Valid format: text",
			level:  "info",
			format: "text",
		},
		{
			name:    "Invalid level",
			level:   "verbose",
			format:  "console",
			wantErr: true,
		},
		{
			name:    "Invalid level: empty string",
			level:   "",
			format:  "console",
			wantErr: true,
		},
		{
			name:    "Invalid format",
			level:   "info",
			format:  "logfmt",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &config.Logger{
				Level:  tt.level,
				Format: tt.format,
			}

			result, err := logger.Configure()
			if (err != nil) != tt.wantErr {
				t.Errorf("Configure() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && result == nil {
				t.Error("Configure() returned nil logger for valid input")
			}
		})
	}
}

func TestLogger_Configure_LevelBehavior(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}

	for _, level := range levels {
		t.Run("Level: "+level, func(t *testing.T) {
			logger := &config.Logger{
				Level:  level,
				Format: "text",
			}

			result, err := logger.Configure()
			if err != nil {
				t.Fatalf("Configure() unexpected error = %v", err)
			}

			// Verify logger can be used at every level
			result.Debug("debug message")
			result.Info("info message")
			result.Warn("warn message")
			result.Error("error message")
		})
	}
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()

	if len(flags) != 2 {
		t.Errorf("Flags() returned %d flags, want 2", len(flags))
	}

	flagNames := make(map[string]bool)
	for _, flag := range flags {
		switch f := flag.(type) {
		case interface{ Names() []string }:
			names := f.Names()
			if len(names) > 0 {
				flagNames[names[0]] = true
			}
		}
	}

	if !flagNames["log-level"] {
		t.Error("Missing log-level flag")
	}
	if !flagNames["log-format"] {
		t.Error("Missing log-format flag")
	}
}

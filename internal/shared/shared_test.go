package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "key=value") {
			t.Errorf("expected structured pair, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "app.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("to file")

		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected log file at %s: %v", path, err)
		}
	})

	t.Run("NewFileLogger rejects empty path", func(t *testing.T) {
		if _, err := NewFileLogger(""); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		tc := []struct {
			in   string
			want log.Level
		}{
			{"", log.InfoLevel},
			{"debug", log.DebugLevel},
			{"WARN", log.WarnLevel},
			{"bogus", log.InfoLevel},
		}
		for _, tt := range tc {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})
}

func TestGenerators(t *testing.T) {
	t.Run("GenerateID is unique", func(t *testing.T) {
		if GenerateID() == GenerateID() {
			t.Error("expected distinct ids")
		}
	})

	t.Run("GenerateState is url safe", func(t *testing.T) {
		state, err := GenerateState()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if state == "" || strings.ContainsAny(state, "+/=") {
			t.Errorf("expected url-safe state, got %q", state)
		}
	})
}

func TestBrowser(t *testing.T) {
	t.Run("BrowserCommand", func(t *testing.T) {
		tc := []struct {
			goos string
			want string
		}{
			{"darwin", "open"},
			{"linux", "xdg-open"},
			{"windows", "cmd"},
		}
		for _, tt := range tc {
			name, args, err := BrowserCommand(tt.goos, "http://x")
			if err != nil {
				t.Fatalf("expected no error for %s, got %v", tt.goos, err)
			}
			if name != tt.want {
				t.Errorf("expected %s for %s, got %s", tt.want, tt.goos, name)
			}
			if args[len(args)-1] != "http://x" {
				t.Errorf("expected url as last arg, got %v", args)
			}
		}

		if _, _, err := BrowserCommand("plan9", "http://x"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("OpenBrowser", func(t *testing.T) {
		origRuntime, origStart := getRuntime, startCommand
		defer func() { getRuntime, startCommand = origRuntime, origStart }()

		var gotName string
		getRuntime = func() string { return "linux" }
		startCommand = func(name string, args ...string) error {
			gotName = name
			return nil
		}

		if err := OpenBrowser("http://x"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotName != "xdg-open" {
			t.Errorf("expected xdg-open, got %s", gotName)
		}

		startCommand = func(string, ...string) error { return errors.New("boom") }
		if err := OpenBrowser("http://x"); err == nil {
			t.Error("expected start failure to surface")
		}
	})
}

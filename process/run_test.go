package process_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/getscript/process"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		cmd        process.Command
		wantErr    bool
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "stdout captured",
			cmd:        process.Command{Binary: "echo", Args: []string{"hello", "world"}},
			wantStdout: "hello world",
		},
		{
			name:       "stdin forwarded",
			cmd:        process.Command{Binary: "cat", Stdin: strings.NewReader("from stdin")},
			wantStdout: "from stdin",
		},
		{
			name:       "stderr captured on success",
			cmd:        process.Command{Binary: "sh", Args: []string{"-c", "echo oops >&2"}},
			wantStderr: "oops",
		},
		{
			name:       "env merged",
			cmd:        process.Command{Binary: "sh", Args: []string{"-c", "echo $GETSCRIPT_TEST_VAR"}, Env: []string{"GETSCRIPT_TEST_VAR=hello123"}},
			wantStdout: "hello123",
		},
		{
			name:     "non-zero exit",
			cmd:      process.Command{Binary: "sh", Args: []string{"-c", "exit 42"}},
			wantErr:  true,
			wantExit: 42,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := process.Run(context.Background(), tt.cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if result.ExitCode != tt.wantExit {
				t.Errorf("exit code = %d, want %d", result.ExitCode, tt.wantExit)
			}
			if got := strings.TrimSpace(string(result.Stdout)); got != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", got, tt.wantStdout)
			}
			if got := strings.TrimSpace(string(result.Stderr)); got != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", got, tt.wantStderr)
			}
		})
	}
}

func TestRun_EmptyBinary(t *testing.T) {
	if _, err := process.Run(context.Background(), process.Command{}); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestRun_ContextKillsProcessGroup(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := process.Run(ctx, process.Command{
		Binary:      "sh",
		Args:        []string{"-c", "sleep 10 & wait"},
		GracePeriod: 500 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error from context cancellation")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded in chain, got %v", err)
	}
	if result.Duration > 5*time.Second {
		t.Fatalf("process took too long to kill: %v", result.Duration)
	}
}

func TestRun_MaxStdout(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary:    "head",
		Args:      []string{"-c", "65536", "/dev/zero"},
		MaxStdout: 1024,
	})
	if !errors.Is(err, process.ErrOutputLimit) {
		t.Fatalf("expected ErrOutputLimit, got %v", err)
	}
	if len(result.Stdout) > 1024 {
		t.Errorf("captured %d bytes past the limit", len(result.Stdout))
	}
}

func TestRun_MaxStdoutNotReached(t *testing.T) {
	result, err := process.Run(context.Background(), process.Command{
		Binary:    "head",
		Args:      []string{"-c", "512", "/dev/zero"},
		MaxStdout: 1024,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(result.Stdout, make([]byte, 512)) {
		t.Errorf("unexpected stdout length %d", len(result.Stdout))
	}
}

func TestResult_StderrTail(t *testing.T) {
	r := &process.Result{Stderr: []byte("line1\n\nline2\nERROR: Video unavailable\n")}
	if got := r.StderrTail(2); got != "line2; ERROR: Video unavailable" {
		t.Errorf("StderrTail(2) = %q", got)
	}
	if got := r.StderrTail(10); got != "line1; line2; ERROR: Video unavailable" {
		t.Errorf("StderrTail(10) = %q", got)
	}
	var nilResult *process.Result
	if got := nilResult.StderrTail(3); got != "" {
		t.Errorf("nil result tail = %q", got)
	}
}

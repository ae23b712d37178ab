package process

import (
	"io"
	"time"
)

// Command describes one subprocess invocation. Only Binary is required.
type Command struct {
	Binary string
	Args   []string
	// Dir defaults to the current directory.
	Dir string
	// Env entries (KEY=value) are appended to the parent environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod separates SIGTERM from SIGKILL on cancellation; 5s when zero.
	GracePeriod time.Duration
	// MaxStdout bounds the captured stdout in bytes. Past it the process group
	// is killed and Run returns ErrOutputLimit. Zero disables the bound.
	MaxStdout int64
}

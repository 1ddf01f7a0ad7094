package process

import (
	"io"
	"time"
)

// Command describes one subprocess invocation. Shellouts build these from
// expanded templates; tasks may also run binaries directly.
type Command struct {
	// Binary is an executable name resolved via PATH, or a path.
	Binary string
	Args   []string
	// Dir is the working directory; empty means inherit.
	Dir string
	// Env entries (key=value) are appended to the inherited environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod bounds the SIGTERM-to-SIGKILL window on cancellation.
	// Zero means 5 seconds.
	GracePeriod time.Duration
}

// Result is the outcome of a finished subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 when the process was killed before exiting.
	ExitCode int
	Duration time.Duration
}

package process

import (
	"context"
	"os/exec"

	"github.com/kbukum/taskflow/errors"
	"github.com/kbukum/taskflow/target"
	"github.com/kbukum/taskflow/task"
)

// Executable is a task that is complete when a named binary can be
// found on PATH. Declare it as a dependency of any task that shells
// out, so a missing tool fails the run before the command does.
type Executable struct {
	// Name is the binary to resolve via PATH.
	Name string
}

func (e Executable) Identity() task.Identity {
	return task.NewIdentity("Executable", task.P("name", task.String(e.Name)))
}

func (e Executable) Requires() task.Deps { return task.None() }

func (e Executable) Output() target.Target { return nil }

// Complete reports whether the binary resolves on PATH.
func (e Executable) Complete(_ context.Context) bool {
	_, err := exec.LookPath(e.Name)
	return err == nil
}

// Run only executes when the binary is missing; there is nothing this
// task can do to install it.
func (e Executable) Run(_ context.Context) error {
	return errors.DependencyUnresolved(e.Name, "executable not found on PATH")
}

package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/taskflow/errors"
)

// placeholderPattern matches {name} substitution sites in a command template.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Shellout runs command templates through a shell, staging their output
// in a private temp file. The template may reference caller-supplied
// variables as {name}; the reserved {output} placeholder expands to a
// fresh temp path that the command is expected to fill. On success the
// temp path is returned so the caller can move it into a target; on
// failure the temp file is removed.
type Shellout struct {
	// Shell is the interpreter invocation. Defaults to ["bash", "-c"].
	Shell []string
	// TempDir is where output staging files are created. Defaults to os.TempDir.
	TempDir string
	// Timeout bounds each command. Zero means no timeout.
	Timeout time.Duration
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration
}

// Run expands the template, executes it through the shell, and returns
// the path of the output temp file. Every {name} in the template must
// have a binding in vars; "output" is reserved and must not appear in vars.
func (s *Shellout) Run(ctx context.Context, template string, vars map[string]string) (string, error) {
	if _, ok := vars["output"]; ok {
		return "", errors.InvalidParameter("output", "reserved placeholder must not be bound by the caller")
	}

	tempDir := s.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	output := filepath.Join(tempDir, "taskflow-"+uuid.NewString())

	command, err := expand(template, vars, output)
	if err != nil {
		return "", err
	}

	shell := s.Shell
	if len(shell) == 0 {
		shell = []string{"bash", "-c"}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	_, err = Run(ctx, Command{
		Binary:      shell[0],
		Args:        append(append([]string{}, shell[1:]...), command),
		GracePeriod: s.GracePeriod,
	})
	if err != nil {
		os.Remove(output)
		return "", err
	}
	return output, nil
}

// expand substitutes every {name} placeholder. Unknown placeholders are
// an error rather than passing through to the shell.
func expand(template string, vars map[string]string, output string) (string, error) {
	var missing []string
	expanded := placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		name := m[1 : len(m)-1]
		if name == "output" {
			return output
		}
		if v, ok := vars[name]; ok {
			return v
		}
		missing = append(missing, name)
		return m
	})
	if len(missing) > 0 {
		return "", errors.InvalidParameter(missing[0],
			fmt.Sprintf("template placeholder {%s} has no binding", missing[0]))
	}
	if strings.TrimSpace(expanded) == "" {
		return "", errors.InvalidParameter("template", "must not be empty")
	}
	return expanded, nil
}

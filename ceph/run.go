package ceph

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"

	"github.com/canonical/lxd/shared"
	"github.com/canonical/lxd/shared/logger"

	"github.com/cephmod/cephmod/api/types"
)

// Runner runs external commands.
type Runner interface {
	// RunCommand runs name with the given argument vector and returns what it printed and its
	// exit status. A non-zero exit status is not an error; err is set only when the command
	// could not be run at all.
	RunCommand(ctx context.Context, name string, arg ...string) (types.CommandOutput, error)
}

// RunnerImpl runs commands on the local host.
type RunnerImpl struct{}

// RunCommand runs the command without a shell.
func (c RunnerImpl) RunCommand(ctx context.Context, name string, arg ...string) (types.CommandOutput, error) {
	out := types.CommandOutput{Start: time.Now()}
	stdout, stderr, err := shared.RunCommandSplit(ctx, nil, nil, name, arg...)
	out.End = time.Now()
	out.Stdout = strings.TrimRight(stdout, "\r\n")
	out.Stderr = strings.TrimRight(stderr, "\r\n")

	logCtx := logger.Ctx{"cmd": strings.Join(append([]string{name}, arg...), " "), "duration": out.Duration().String()}
	if id := invocationFromContext(ctx); id != "" {
		logCtx["invocation"] = id
	}

	// the run error wraps the exit error of a command that ran but failed
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.RC = exitErr.ExitCode()
		logCtx["rc"] = out.RC
		logCtx["stderr"] = out.Stderr
		logger.Warn("Command exited non-zero", logCtx)
		return out, nil
	}

	if err != nil {
		logCtx["err"] = err
		logger.Error("Failed running command", logCtx)
		return out, err
	}

	logger.Debug("Command finished", logCtx)
	return out, nil
}

// processExec is the Runner used for every CLI call; tests patch it.
var processExec Runner = RunnerImpl{}

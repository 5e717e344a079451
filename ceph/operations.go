package ceph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/canonical/lxd/shared/logger"

	"github.com/cephmod/cephmod/api/types"
)

// Operation is a single external call.
type Operation interface {
	// Run executes the operation and returns what the external interface reported.
	Run(ctx context.Context, s *session) (types.CommandOutput, error)

	// DryRun returns the string representation of the operation.
	DryRun() string
}

// CommandOps runs a CLI command.
type CommandOps struct {
	Name string
	Args []string
}

// Run executes the command through processExec.
func (o *CommandOps) Run(ctx context.Context, s *session) (types.CommandOutput, error) {
	return processExec.RunCommand(ctx, o.Name, o.Args...)
}

// DryRun prints out the command line.
func (o *CommandOps) DryRun() string {
	return strings.Join(append([]string{o.Name}, o.Args...), " ")
}

// MonCommandOps sends a command to the monitors through the cluster handle.
type MonCommandOps struct {
	Args []byte

	// Display overrides the rendered command line.
	Display string
}

// Run sends the command.
func (o *MonCommandOps) Run(ctx context.Context, s *session) (types.CommandOutput, error) {
	cluster, err := s.Cluster(ctx)
	if err != nil {
		return types.CommandOutput{}, err
	}

	start := time.Now()
	out, err := cluster.MonCommand(o.Args)
	out.Start = start
	out.End = time.Now()
	return out, err
}

// DryRun prints out the equivalent ceph command.
func (o *MonCommandOps) DryRun() string {
	if o.Display != "" {
		return o.Display
	}
	return describeMonCommand(o.Args)
}

// Step is one sub-action of a plan.
type Step struct {
	// Action names the sub-action, e.g. "attach-tier".
	Action string
	Ops    Operation

	// Expect confirms that a mutating step changed something. Steps without one are queries.
	Expect Expectation

	// Collect copies facts into the result once the step has been classified.
	Collect func(ctx context.Context, out types.CommandOutput, r *types.Result) error
}

func (st Step) mutating() bool {
	return st.Expect != nil
}

// RunOperations runs the steps in order, or lists them when dryRun is set. Queries still run
// on a dry run. The first failing step ends the sequence; the records of the steps that ran are
// returned together with the error.
func RunOperations(ctx context.Context, s *session, steps []Step, dryRun bool, r *types.Result) ([]types.StepResult, error) {
	records := []types.StepResult{}

	for _, step := range steps {
		if dryRun && step.mutating() {
			records = append(records, types.StepResult{
				Action:  step.Action,
				Cmd:     step.Ops.DryRun(),
				Outcome: types.OutcomePlanned,
			})
			continue
		}

		out, err := step.Ops.Run(ctx, s)
		record := newStepResult(step, out)
		observeCommand(s.module, step.Action, out)

		if err == nil && out.RC != 0 {
			err = newExecutionError(step, out)
		}
		if err != nil {
			record.Outcome = types.OutcomeFailed
			record.Error = err.Error()
			records = append(records, record)
			logger.Error("Step failed", logger.Ctx{"module": s.module, "invocation": s.invocation, "action": step.Action, "err": err})
			return records, err
		}

		record.Outcome = types.OutcomeOk
		if step.mutating() {
			confirmed, err := step.Expect.Confirm(ctx, out)
			if err != nil {
				record.Outcome = types.OutcomeFailed
				record.Error = err.Error()
				records = append(records, record)
				return records, fmt.Errorf("failed confirming %s: %w", step.Action, err)
			}

			if confirmed {
				record.Outcome = types.OutcomeChanged
				logger.Info("Step confirmed", logger.Ctx{"module": s.module, "invocation": s.invocation, "action": step.Action})
			} else {
				record.Outcome = types.OutcomeUnconfirmed
				logger.Warn("Step exited 0 but its output did not confirm a change", logger.Ctx{"module": s.module, "invocation": s.invocation, "action": step.Action, "stderr": out.Stderr})
			}
		}

		if step.Collect != nil {
			err = step.Collect(ctx, out, r)
			if err != nil {
				record.Outcome = types.OutcomeFailed
				record.Error = err.Error()
				records = append(records, record)
				return records, err
			}
		}

		records = append(records, record)
	}

	return records, nil
}

func newStepResult(step Step, out types.CommandOutput) types.StepResult {
	record := types.StepResult{
		Action: step.Action,
		Cmd:    step.Ops.DryRun(),
		RC:     out.RC,
		Stdout: out.Stdout,
		Stderr: out.Stderr,
	}

	if !out.Start.IsZero() {
		record.Start = out.Start.Format(types.TimeLayout)
		record.End = out.End.Format(types.TimeLayout)
		record.Delta = types.FormatDelta(out.Duration())
	}

	return record
}

func newExecutionError(step Step, out types.CommandOutput) error {
	e := &ExecutionError{Action: step.Action, RC: out.RC, Stderr: out.Stderr}
	if _, ok := step.Ops.(*MonCommandOps); ok {
		e.Errno = errnoName(out.RC)
	}
	return e
}

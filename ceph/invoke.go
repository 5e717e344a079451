package ceph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/canonical/lxd/shared/logger"
	"github.com/pborman/uuid"

	"github.com/cephmod/cephmod/api/types"
)

// Binaries are the CLI tools modules shell out to.
type Binaries struct {
	Ceph string
	Rbd  string
}

// DefaultBinaries resolves the tools through PATH.
func DefaultBinaries() Binaries {
	return Binaries{Ceph: "ceph", Rbd: "rbd"}
}

// Invoker runs module invocations.
type Invoker struct {
	// Connect opens cluster handles for the modules that use the client library.
	Connect Connector

	// Defaults fill in connection parameters the caller leaves out.
	Defaults types.ConnParams

	Binaries Binaries
}

// resource is one kind of resource the wrapper converges. A value holds the desired state of one
// invocation and, after observe, what the cluster currently has.
type resource interface {
	// describe copies the identifiers acted upon into the result.
	describe(r *types.Result)

	// validate checks rules that do not depend on cluster state.
	validate() error

	// observe reads the current state.
	observe(ctx context.Context, s *session) error

	// plan decides which steps bring the cluster to the desired state.
	plan(s *session) (*plan, error)
}

// plan is the ordered list of steps of an invocation.
type plan struct {
	steps []Step

	// requireAll reports changed only when every mutating step is confirmed.
	requireAll bool
}

// session carries what the steps of one invocation share. It owns the cluster handle.
type session struct {
	module     string
	invocation string
	params     types.ConnParams
	connect    Connector
	cluster    Cluster
	binaries   Binaries
}

// Cluster returns the cluster handle, connecting on first use.
func (s *session) Cluster(ctx context.Context) (Cluster, error) {
	if s.cluster != nil {
		return s.cluster, nil
	}

	if s.connect == nil {
		return nil, &ConnectionError{Stage: "initializing cluster client", Err: errors.New("no cluster connector configured")}
	}

	cluster, err := s.connect(ctx, s.params)
	if err != nil {
		var connErr *ConnectionError
		if errors.As(err, &connErr) {
			return nil, err
		}
		return nil, &ConnectionError{Stage: "connecting to cluster", Err: err}
	}

	s.cluster = cluster
	return cluster, nil
}

func (s *session) close() {
	if s.cluster != nil {
		s.cluster.Shutdown()
		s.cluster = nil
	}
}

type invocationKey struct{}

// WithInvocationID returns a context that makes Apply use id instead of generating one.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationKey{}, id)
}

func invocationID(ctx context.Context) string {
	id := invocationFromContext(ctx)
	if id == "" {
		return uuid.New()
	}
	return id
}

func invocationFromContext(ctx context.Context) string {
	id, _ := ctx.Value(invocationKey{}).(string)
	return id
}

// Apply runs one invocation of a module and returns its result. Failures are reported in the
// result rather than as an error.
func (i *Invoker) Apply(ctx context.Context, module string, args map[string]any, dryRun bool) (result types.Result) {
	start := time.Now()
	result = types.Result{
		Module:       module,
		InvocationID: invocationID(ctx),
		Outcome:      types.OutcomeOk,
		DryRun:       dryRun,
	}
	ctx = WithInvocationID(ctx, result.InvocationID)

	defer func() {
		end := time.Now()
		result.Start = start.Format(types.TimeLayout)
		result.End = end.Format(types.TimeLayout)
		result.Delta = types.FormatDelta(end.Sub(start))
		invocationsTotal.WithLabelValues(module, string(result.Outcome)).Inc()
		logger.Info("Invocation finished", logger.Ctx{"module": module, "invocation": result.InvocationID, "outcome": result.Outcome, "delta": result.Delta})
	}()

	res, conn, err := i.newResource(module, args)
	if err != nil {
		fail(&result, err)
		return result
	}
	res.describe(&result)

	s := &session{
		module:     module,
		invocation: result.InvocationID,
		params:     conn,
		connect:    i.Connect,
		binaries:   i.binaries(),
	}
	defer s.close()

	err = res.validate()
	if err != nil {
		fail(&result, err)
		return result
	}

	err = res.observe(ctx, s)
	if err != nil {
		fail(&result, err)
		return result
	}

	p, err := res.plan(s)
	if err != nil {
		fail(&result, err)
		return result
	}

	logger.Debug("Planned invocation", logger.Ctx{"module": module, "invocation": result.InvocationID, "steps": len(p.steps)})

	records, err := RunOperations(ctx, s, p.steps, dryRun, &result)
	result.Steps = records
	if len(records) > 0 {
		last := records[len(records)-1]
		result.Cmd = last.Cmd
		result.RC = last.RC
		result.Stdout = last.Stdout
		result.Stderr = last.Stderr
	}

	classify(&result, p.requireAll, dryRun)
	if err != nil {
		fail(&result, err)
	}

	return result
}

func (i *Invoker) newResource(module string, args map[string]any) (resource, types.ConnParams, error) {
	conn := i.Defaults
	if conn.ClientName == "" && conn.Cluster == "" {
		conn = types.DefaultConnParams()
	}

	switch module {
	case types.ModuleStatus:
		p := types.StatusParams{ConnParams: conn}
		err := decodeParams(args, &p)
		return &statusResource{params: p}, p.ConnParams, err
	case types.ModulePool:
		p := types.PoolParams{State: types.StatePresent, Type: "replicated", ConnParams: conn}
		err := decodeParams(args, &p)
		return &poolResource{params: p}, p.ConnParams, err
	case types.ModuleTier:
		p := types.TierParams{State: types.StatePresent, CacheMode: "writeback", ConnParams: conn}
		err := decodeParams(args, &p)
		return &tierResource{params: p}, p.ConnParams, err
	case types.ModuleImage:
		p := types.ImageParams{State: types.StatePresent, ConnParams: conn}
		err := decodeParams(args, &p)
		return &imageResource{params: p}, p.ConnParams, err
	case types.ModuleMap:
		p := types.MapParams{State: types.StatePresent}
		err := decodeParams(args, &p)
		return &mappingResource{params: p}, conn, err
	}

	return nil, conn, validationErrorf("unknown module '%s'", module)
}

func (i *Invoker) binaries() Binaries {
	binaries := i.Binaries
	if binaries.Ceph == "" {
		binaries.Ceph = DefaultBinaries().Ceph
	}
	if binaries.Rbd == "" {
		binaries.Rbd = DefaultBinaries().Rbd
	}
	return binaries
}

// classify derives changed and the outcome from the step records.
func classify(r *types.Result, requireAll bool, dryRun bool) {
	mutating := 0
	confirmed := 0
	for _, step := range r.Steps {
		switch step.Outcome {
		case types.OutcomePlanned:
			mutating++
		case types.OutcomeChanged:
			mutating++
			confirmed++
		case types.OutcomeUnconfirmed:
			mutating++
			r.Warnings = append(r.Warnings, fmt.Sprintf("could not confirm %s: output was %q", step.Action, step.Stderr))
		}
	}

	switch {
	case dryRun:
		r.Changed = mutating > 0
	case requireAll:
		r.Changed = mutating > 0 && confirmed == mutating
	default:
		r.Changed = confirmed > 0
	}

	switch {
	case r.Changed:
		r.Outcome = types.OutcomeChanged
	case mutating > 0 && !dryRun:
		r.Outcome = types.OutcomeUnconfirmed
	default:
		r.Outcome = types.OutcomeOk
	}
}

func fail(r *types.Result, err error) {
	r.Failed = true
	r.Outcome = types.OutcomeFailed
	r.Msg = err.Error()
}

// query sends a read-only mon command as part of observing the cluster.
func (s *session) query(ctx context.Context, action string, args []byte) (types.CommandOutput, error) {
	cluster, err := s.Cluster(ctx)
	if err != nil {
		return types.CommandOutput{}, err
	}

	out, err := cluster.MonCommand(args)
	if err != nil {
		return out, fmt.Errorf("failed to %s: %w", action, err)
	}
	if out.RC != 0 {
		return out, &ExecutionError{Action: action, RC: out.RC, Stderr: out.Stderr, Errno: errnoName(out.RC)}
	}

	return out, nil
}

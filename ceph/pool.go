package ceph

import (
	"context"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/cephmod/cephmod/api/types"
)

// poolResource manages a storage pool through the client library.
type poolResource struct {
	params types.PoolParams

	exists bool
	id     int64
	pgNum  int64
	pgpNum int64
}

func (r *poolResource) describe(res *types.Result) {
	res.Name = r.params.Name
}

func (r *poolResource) validate() error {
	if r.params.State != types.StatePresent {
		return nil
	}

	if r.params.Ruleset != "" && r.params.PgpNum == nil {
		return validationErrorf("pgpnum is required when ruleset specified")
	}

	if r.params.Type == "erasure" && r.params.PgpNum == nil {
		return validationErrorf("pgpnum is required when type=erasure")
	}

	return nil
}

func (r *poolResource) observe(ctx context.Context, s *session) error {
	cluster, err := s.Cluster(ctx)
	if err != nil {
		return err
	}

	pools, err := cluster.ListPools()
	if err != nil {
		return fmt.Errorf("error listing pools: %w", err)
	}

	r.exists = slices.Contains(pools, r.params.Name)
	if !r.exists || r.params.State != types.StatePresent {
		return nil
	}

	if r.params.PgNum != nil {
		r.pgNum, err = r.getVar(ctx, s, "pg_num")
		if err != nil {
			return err
		}
	}

	if r.params.PgpNum != nil {
		r.pgpNum, err = r.getVar(ctx, s, "pgp_num")
		if err != nil {
			return err
		}
	}

	return nil
}

// getVar reads a numeric pool variable, recording the pool id on the way.
func (r *poolResource) getVar(ctx context.Context, s *session, name string) (int64, error) {
	args, err := monCommand("osd pool get", "pool", r.params.Name, "var", name, "format", "json")
	if err != nil {
		return 0, err
	}

	out, err := s.query(ctx, fmt.Sprintf("get %s of pool '%s'", name, r.params.Name), args)
	if err != nil {
		return 0, err
	}

	value := gjson.Get(out.Stdout, name)
	if !value.Exists() {
		return 0, fmt.Errorf("pool '%s' reported no %s: %s", r.params.Name, name, out.Stdout)
	}

	r.id = gjson.Get(out.Stdout, "pool_id").Int()
	return value.Int(), nil
}

func (r *poolResource) plan(s *session) (*plan, error) {
	switch {
	case r.params.State == types.StatePresent && !r.exists:
		step, err := r.createStep()
		if err != nil {
			return nil, err
		}
		return &plan{steps: []Step{step}}, nil

	case r.params.State == types.StatePresent:
		return r.modifySteps()

	case r.exists:
		step, err := r.deleteStep()
		if err != nil {
			return nil, err
		}
		return &plan{steps: []Step{step}}, nil
	}

	return &plan{}, nil
}

func (r *poolResource) createStep() (Step, error) {
	p := r.params
	if p.PgNum == nil {
		return Step{}, validationErrorf("pgnum is required when state=present")
	}

	kv := []any{"pool", p.Name, "pool_type", p.Type, "pg_num", *p.PgNum}
	if p.PgpNum != nil {
		kv = append(kv, "pgp_num", *p.PgpNum)
	}
	if p.Type == "erasure" && p.ErasureCodeProfile != "" {
		kv = append(kv, "erasure_code_profile", p.ErasureCodeProfile)
	}
	if p.Ruleset != "" {
		kv = append(kv, "rule", p.Ruleset)
	}

	args, err := monCommand("osd pool create", kv...)
	if err != nil {
		return Step{}, err
	}

	return Step{
		Action: "create-pool",
		Ops:    &MonCommandOps{Args: args},
		Expect: MessageExpectation{Stream: Stderr, Message: fmt.Sprintf("pool '%s' created", p.Name)},
	}, nil
}

func (r *poolResource) deleteStep() (Step, error) {
	name := r.params.Name
	args, err := monCommand("osd pool delete", "pool", name, "pool2", name, "yes_i_really_really_mean_it", true)
	if err != nil {
		return Step{}, err
	}

	return Step{
		Action: "delete-pool",
		Ops:    &MonCommandOps{Args: args},
		Expect: MessageExpectation{Stream: Stderr, Message: fmt.Sprintf("pool '%s' removed", name)},
	}, nil
}

// modifySteps grows the placement group counts of an existing pool. Placement group counts
// cannot shrink, so a smaller target is an error.
func (r *poolResource) modifySteps() (*plan, error) {
	steps := []Step{}

	for _, v := range []struct {
		name    string
		param   string
		target  *int
		current int64
	}{
		{"pg_num", "pgnum", r.params.PgNum, r.pgNum},
		{"pgp_num", "pgpnum", r.params.PgpNum, r.pgpNum},
	} {
		if v.target == nil || int64(*v.target) == v.current {
			continue
		}

		if int64(*v.target) < v.current {
			return nil, validationErrorf("%s cannot be decreased from %d to %d for pool '%s'", v.param, v.current, *v.target, r.params.Name)
		}

		step, err := r.setStep(v.name, *v.target)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return &plan{steps: steps}, nil
}

func (r *poolResource) setStep(name string, value int) (Step, error) {
	args, err := monCommand("osd pool set", "pool", r.params.Name, "var", name, "val", fmt.Sprint(value))
	if err != nil {
		return Step{}, err
	}

	// the echoed value differs between releases, so only the prefix is matched
	expect, err := expectPattern(Stderr, patternf("set pool %s %s to *", r.id, name))
	if err != nil {
		return Step{}, err
	}

	return Step{
		Action: "set-" + name,
		Ops:    &MonCommandOps{Args: args},
		Expect: expect,
	}, nil
}

package ceph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/cephmod/cephmod/api/types"
)

// statusQuery describes one cluster query of the status module.
type statusQuery struct {
	display string
	fact    string
	args    []any
}

var statusQueries = map[string]statusQuery{
	"status": {
		display: "ceph status --format=json",
		fact:    "ceph_status",
		args:    []any{"format", "json"},
	},
	"quorum_status": {
		display: "ceph quorum_status",
		fact:    "quorum_status",
	},
}

// statusResource queries the cluster status or the monitor quorum.
type statusResource struct {
	params types.StatusParams
}

func (r *statusResource) describe(res *types.Result) {}

func (r *statusResource) validate() error {
	return nil
}

func (r *statusResource) observe(ctx context.Context, s *session) error {
	return nil
}

func (r *statusResource) plan(s *session) (*plan, error) {
	query := statusQueries[r.params.Cmd]

	args, err := monCommand(r.params.Cmd, query.args...)
	if err != nil {
		return nil, err
	}

	return &plan{steps: []Step{{
		Action:  r.params.Cmd,
		Ops:     &MonCommandOps{Args: args, Display: query.display},
		Collect: collectJSONFact(query.fact),
	}}}, nil
}

// collectJSONFact stores the JSON document printed by a query as a fact.
func collectJSONFact(fact string) func(ctx context.Context, out types.CommandOutput, res *types.Result) error {
	return func(ctx context.Context, out types.CommandOutput, res *types.Result) error {
		if !gjson.Valid(out.Stdout) {
			return fmt.Errorf("%s output is not valid JSON", fact)
		}

		if res.Facts == nil {
			res.Facts = map[string]json.RawMessage{}
		}
		res.Facts[fact] = json.RawMessage(out.Stdout)
		return nil
	}
}

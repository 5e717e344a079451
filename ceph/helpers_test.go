package ceph

import (
	"context"
	"errors"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/mocks"
)

// connectTo returns a connector handing out c and counting how often it was used.
func connectTo(c *mocks.Cluster, count *int) Connector {
	return func(ctx context.Context, params types.ConnParams) (Cluster, error) {
		if count != nil {
			*count++
		}
		return c, nil
	}
}

// unreachable is a connector for a cluster that cannot be reached.
func unreachable(ctx context.Context, params types.ConnParams) (Cluster, error) {
	return nil, errors.New("timed out")
}

// stepActions returns the actions of the recorded steps in order.
func stepActions(r types.Result) []string {
	actions := []string{}
	for _, step := range r.Steps {
		actions = append(actions, step.Action)
	}
	return actions
}

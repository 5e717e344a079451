package ceph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cephmod/cephmod/api/types"
)

// Mapping is an image mapped to a block device on this host. The name is the key of the
// mappings fact, so it is left out of the mapping's own document.
type Mapping struct {
	ID     string `json:"id"`
	Pool   string `json:"pool"`
	Name   string `json:"-"`
	Snap   string `json:"snap"`
	Device string `json:"device"`
}

// listMappings returns the images mapped on this host. rbd prints either an object keyed by
// mapping id or, in newer releases, an array.
func listMappings(ctx context.Context, rbd string) ([]Mapping, error) {
	out, err := processExec.RunCommand(ctx, rbd, "showmapped", "--format", "json")
	if err != nil {
		return nil, fmt.Errorf("failed listing mapped images: %w", err)
	}
	if out.RC != 0 {
		return nil, &ExecutionError{Action: "showmapped", RC: out.RC, Stderr: out.Stderr}
	}

	doc := strings.TrimSpace(out.Stdout)
	if doc == "" {
		return []Mapping{}, nil
	}
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("rbd showmapped printed invalid JSON: %s", doc)
	}

	mappings := []Mapping{}
	gjson.Parse(doc).ForEach(func(key, value gjson.Result) bool {
		id := value.Get("id").String()
		if id == "" {
			id = key.String()
		}

		mappings = append(mappings, Mapping{
			ID:     id,
			Pool:   value.Get("pool").String(),
			Name:   value.Get("name").String(),
			Snap:   value.Get("snap").String(),
			Device: value.Get("device").String(),
		})
		return true
	})

	return mappings, nil
}

// mappingResource maps or unmaps an image on this host through the rbd CLI.
type mappingResource struct {
	params types.MapParams

	current *Mapping
	after   []Mapping
}

func (r *mappingResource) describe(res *types.Result) {
	res.Name = r.params.Name
}

func (r *mappingResource) validate() error {
	return nil
}

// find returns the mapping of the requested image, if any.
func (r *mappingResource) find(mappings []Mapping) *Mapping {
	for i, m := range mappings {
		if m.Name != r.params.Name {
			continue
		}
		if r.params.Pool != "" && m.Pool != r.params.Pool {
			continue
		}
		return &mappings[i]
	}
	return nil
}

func (r *mappingResource) observe(ctx context.Context, s *session) error {
	mappings, err := listMappings(ctx, s.binaries.Rbd)
	if err != nil {
		return err
	}

	r.current = r.find(mappings)
	return nil
}

func (r *mappingResource) plan(s *session) (*plan, error) {
	p := r.params
	rbd := s.binaries.Rbd

	switch {
	case p.State == types.StatePresent && r.current == nil:
		args := []string{"map", p.Name}
		if p.Pool != "" {
			args = append(args, "--pool", p.Pool)
		}
		if p.ID != "" {
			args = append(args, "--id", p.ID)
		}
		if p.Options != "" {
			args = append(args, "--options", p.Options)
		}
		if p.ReadOnly {
			args = append(args, "--read-only")
		}

		return &plan{steps: []Step{{
			Action:  "map-image",
			Ops:     &CommandOps{Name: rbd, Args: args},
			Expect:  r.verify(s, true),
			Collect: r.collect,
		}}}, nil

	case p.State == types.StateAbsent && r.current != nil:
		return &plan{steps: []Step{{
			Action:  "unmap-image",
			Ops:     &CommandOps{Name: rbd, Args: []string{"unmap", r.current.Device}},
			Expect:  r.verify(s, false),
			Collect: r.collect,
		}}}, nil
	}

	return &plan{}, nil
}

// verify lists the mappings again and checks the image is (or is no longer) mapped.
func (r *mappingResource) verify(s *session, mapped bool) VerifyExpectation {
	return func(ctx context.Context) (bool, error) {
		mappings, err := listMappings(ctx, s.binaries.Rbd)
		if err != nil {
			return false, err
		}

		r.after = mappings
		return (r.find(mappings) != nil) == mapped, nil
	}
}

// collect reports the mappings seen after the change, keyed by image name.
func (r *mappingResource) collect(ctx context.Context, out types.CommandOutput, res *types.Result) error {
	if r.after == nil {
		return nil
	}

	// keyed by image name; a name mapped from several pools keeps the last listed mapping
	byName := make(map[string]Mapping, len(r.after))
	for _, m := range r.after {
		byName[m.Name] = m
	}

	data, err := json.Marshal(byName)
	if err != nil {
		return err
	}

	if res.Facts == nil {
		res.Facts = map[string]json.RawMessage{}
	}
	res.Facts["rbd_mappings"] = data
	return nil
}

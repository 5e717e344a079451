package ceph

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/cephmod/cephmod/api/types"
)

// defaultImagePool is the pool images live in when no pool is given.
const defaultImagePool = "rbd"

const megabyte = 1024 * 1024

// imageResource manages a block device image. It observes through the client library and
// mutates through the rbd CLI.
type imageResource struct {
	params types.ImageParams

	exists bool
	size   uint64
}

func (r *imageResource) describe(res *types.Result) {
	res.Name = r.params.Name
}

func (r *imageResource) validate() error {
	return nil
}

func (r *imageResource) pool() string {
	if r.params.Pool == "" {
		return defaultImagePool
	}
	return r.params.Pool
}

func (r *imageResource) observe(ctx context.Context, s *session) error {
	listed, err := r.listed(ctx, s)
	if err != nil {
		return err
	}

	r.exists = listed
	if !r.exists || r.params.State != types.StatePresent || r.params.Size == nil {
		return nil
	}

	cluster, err := s.Cluster(ctx)
	if err != nil {
		return err
	}

	r.size, err = cluster.ImageSize(r.pool(), r.params.Name)
	if err != nil {
		return fmt.Errorf("error reading size of image '%s': %w", r.params.Name, err)
	}

	return nil
}

// listed reports whether the image is in its pool's image list.
func (r *imageResource) listed(ctx context.Context, s *session) (bool, error) {
	cluster, err := s.Cluster(ctx)
	if err != nil {
		return false, err
	}

	images, err := cluster.ListImages(r.pool())
	if err != nil {
		return false, fmt.Errorf("error listing images in pool '%s': %w", r.pool(), err)
	}

	return slices.Contains(images, r.params.Name), nil
}

func (r *imageResource) plan(s *session) (*plan, error) {
	p := r.params
	rbd := s.binaries.Rbd

	switch {
	case p.State == types.StatePresent && !r.exists:
		if p.Size == nil {
			return nil, validationErrorf("size is required when state=present")
		}

		args := []string{"create", p.Name, "--size", strconv.Itoa(*p.Size)}
		if p.ImageFormat != nil {
			args = append(args, "--image-format", strconv.Itoa(*p.ImageFormat))
		}
		if p.ImageShared {
			args = append(args, "--image-shared")
		}

		return &plan{steps: []Step{{
			Action: "create-image",
			Ops:    &CommandOps{Name: rbd, Args: r.withPool(args)},
			Expect: VerifyExpectation(func(ctx context.Context) (bool, error) {
				return r.listed(ctx, s)
			}),
		}}}, nil

	case p.State == types.StatePresent:
		if p.Size == nil {
			return &plan{}, nil
		}

		target := uint64(*p.Size) * megabyte
		if target == r.size {
			return &plan{}, nil
		}

		if target < r.size && !p.AllowShrink {
			return nil, validationErrorf("shrinking an image is only allowed with allow_shrink=true (image '%s' is %d bytes, requested %d bytes)", p.Name, r.size, target)
		}

		args := []string{"resize", "--size", strconv.Itoa(*p.Size), p.Name}
		if p.AllowShrink {
			args = append(args, "--allow-shrink")
		}

		return &plan{steps: []Step{{
			Action: "resize-image",
			Ops:    &CommandOps{Name: rbd, Args: r.withPool(args)},
			Expect: ProgressExpectation{Message: "Resizing image: 100% complete...done."},
		}}}, nil

	case r.exists:
		return &plan{steps: []Step{{
			Action: "remove-image",
			Ops:    &CommandOps{Name: rbd, Args: r.withPool([]string{"rm", p.Name})},
			Expect: ProgressExpectation{Message: "Removing image: 100% complete...done."},
		}}}, nil
	}

	return &plan{}, nil
}

// withPool adds the pool argument when the caller named one.
func (r *imageResource) withPool(args []string) []string {
	if r.params.Pool != "" {
		args = append(args, "--pool", r.params.Pool)
	}
	return args
}

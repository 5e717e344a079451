package ceph

import (
	"context"
	"fmt"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/cephmod/cephmod/api/types"
)

// tierResource manages a cache tier relationship between two existing pools.
type tierResource struct {
	params types.TierParams

	attached  bool
	cacheMode string
	overlay   bool
}

func (r *tierResource) describe(res *types.Result) {
	res.StoragePool = r.params.StoragePool
	res.CachePool = r.params.CachePool
}

func (r *tierResource) validate() error {
	if r.params.StoragePool == r.params.CachePool {
		return validationErrorf("storage_pool and cache_pool must differ")
	}
	return nil
}

func (r *tierResource) observe(ctx context.Context, s *session) error {
	cluster, err := s.Cluster(ctx)
	if err != nil {
		return err
	}

	pools, err := cluster.ListPools()
	if err != nil {
		return fmt.Errorf("error listing pools: %w", err)
	}

	if !slices.Contains(pools, r.params.StoragePool) {
		return validationErrorf("storage_pool does not exist")
	}
	if !slices.Contains(pools, r.params.CachePool) {
		return validationErrorf("cache_pool does not exist")
	}

	args, err := monCommand("osd dump", "format", "json")
	if err != nil {
		return err
	}

	out, err := s.query(ctx, "dump the osd map", args)
	if err != nil {
		return err
	}

	var storage, cache gjson.Result
	gjson.Get(out.Stdout, "pools").ForEach(func(_, pool gjson.Result) bool {
		switch pool.Get("pool_name").String() {
		case r.params.StoragePool:
			storage = pool
		case r.params.CachePool:
			cache = pool
		}
		return true
	})

	if !storage.Exists() || !cache.Exists() {
		return fmt.Errorf("osd map does not list pools '%s' and '%s'", r.params.StoragePool, r.params.CachePool)
	}

	storageID := storage.Get("pool").Int()
	cacheID := cache.Get("pool").Int()

	r.attached = cache.Get("tier_of").Int() == storageID
	r.cacheMode = cache.Get("cache_mode").String()
	r.overlay = storage.Get("read_tier").Int() == cacheID

	return nil
}

func (r *tierResource) plan(s *session) (*plan, error) {
	p := r.params
	ceph := s.binaries.Ceph
	steps := []Step{}

	if p.State == types.StateAbsent {
		if r.overlay {
			steps = append(steps, r.removeOverlayStep(ceph))
		}

		if r.attached {
			steps = append(steps, Step{
				Action: "remove-tier",
				Ops:    &CommandOps{Name: ceph, Args: []string{"osd", "tier", "remove", p.StoragePool, p.CachePool}},
				Expect: MessageExpectation{Stream: Stderr, Message: fmt.Sprintf("pool '%s' is now (or already was) not a tier of '%s'", p.CachePool, p.StoragePool)},
			})
		}

		return &plan{steps: steps, requireAll: true}, nil
	}

	if !r.attached {
		args := []string{"osd", "tier", "add", p.StoragePool, p.CachePool}
		if p.ForceNonempty {
			args = append(args, "--force-nonempty")
		}

		steps = append(steps, Step{
			Action: "attach-tier",
			Ops:    &CommandOps{Name: ceph, Args: args},
			Expect: MessageExpectation{Stream: Stderr, Message: fmt.Sprintf("pool '%s' is now (or already was) a tier of '%s'", p.CachePool, p.StoragePool)},
		})
	}

	if !r.attached || r.cacheMode != p.CacheMode {
		args := []string{"osd", "tier", "cache-mode", p.CachePool, p.CacheMode}

		// these modes risk data loss and must be acknowledged
		if p.CacheMode == "readonly" || p.CacheMode == "forward" {
			args = append(args, "--yes-i-really-mean-it")
		}

		steps = append(steps, Step{
			Action: "set-cache-mode",
			Ops:    &CommandOps{Name: ceph, Args: args},
			Expect: MessageExpectation{Stream: Stderr, Message: fmt.Sprintf("set cache-mode for pool '%s' to %s", p.CachePool, p.CacheMode)},
		})
	}

	switch {
	case p.SetOverlay && !r.overlay:
		steps = append(steps, Step{
			Action: "set-overlay",
			Ops:    &CommandOps{Name: ceph, Args: []string{"osd", "tier", "set-overlay", p.StoragePool, p.CachePool}},
			Expect: MessageExpectation{Stream: Stderr, Message: fmt.Sprintf("overlay for '%s' is now (or already was) '%s'", p.StoragePool, p.CachePool)},
		})
	case !p.SetOverlay && r.overlay:
		steps = append(steps, r.removeOverlayStep(ceph))
	}

	return &plan{steps: steps, requireAll: true}, nil
}

func (r *tierResource) removeOverlayStep(ceph string) Step {
	storage := r.params.StoragePool
	return Step{
		Action: "remove-overlay",
		Ops:    &CommandOps{Name: ceph, Args: []string{"osd", "tier", "remove-overlay", storage}},
		Expect: MessageExpectation{Stream: Stderr, Message: fmt.Sprintf("there is now (or already was) no overlay for '%s'", storage)},
	}
}

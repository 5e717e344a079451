package ceph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/mocks"
	"github.com/cephmod/cephmod/tests"
)

func TestTier(t *testing.T) {
	suite.Run(t, new(tierSuite))
}

// tierSuite is the test suite for the tier module.
type tierSuite struct {
	tests.BaseSuite
}

const (
	detachedDump = `{"epoch":40,"pools":[
		{"pool":1,"pool_name":"cold","tier_of":-1,"read_tier":-1,"cache_mode":"none"},
		{"pool":2,"pool_name":"hot","tier_of":-1,"read_tier":-1,"cache_mode":"none"}]}`
	attachedDump = `{"epoch":44,"pools":[
		{"pool":1,"pool_name":"cold","tier_of":-1,"read_tier":2,"cache_mode":"none"},
		{"pool":2,"pool_name":"hot","tier_of":1,"read_tier":-1,"cache_mode":"readonly"}]}`
)

// addTierPools sets up a cluster holding both pools with the given osd map.
func addTierPools(c *mocks.Cluster, dump string) {
	c.On("ListPools").Return([]string{"cold", "hot"}, nil).Once()
	c.On("MonCommand", tests.MonPrefix("osd dump")).Return(tests.Ok(dump, ""), nil).Once()
	c.On("Shutdown").Once()
}

var readonlyTier = map[string]any{
	"storage_pool": "cold",
	"cache_pool":   "hot",
	"cache_mode":   "readonly",
	"set_overlay":  "yes",
}

func (s *tierSuite) TestAttachReadonlyTier() {
	c := mocks.NewCluster(s.T())
	addTierPools(c, detachedDump)

	r := mocks.NewRunner(s.T())
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "add", "cold", "hot").
		Return(tests.Ok("", "pool 'hot' is now (or already was) a tier of 'cold'"), nil).Once()
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "cache-mode", "hot", "readonly", "--yes-i-really-mean-it").
		Return(tests.Ok("", "set cache-mode for pool 'hot' to readonly"), nil).Once()
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "set-overlay", "cold", "hot").
		Return(tests.Ok("", "overlay for 'cold' is now (or already was) 'hot'"), nil).Once()
	processExec = r

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, readonlyTier, false)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.True(s.T(), result.Changed)
	assert.Equal(s.T(), "cold", result.StoragePool)
	assert.Equal(s.T(), "hot", result.CachePool)
	assert.Equal(s.T(), []string{"attach-tier", "set-cache-mode", "set-overlay"}, stepActions(result))
	assert.Equal(s.T(), "ceph osd tier set-overlay cold hot", result.Cmd)
}

func (s *tierSuite) TestChangedRequiresEveryStep() {
	c := mocks.NewCluster(s.T())
	addTierPools(c, detachedDump)

	r := mocks.NewRunner(s.T())
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "add", "cold", "hot").
		Return(tests.Ok("", "pool 'hot' is now (or already was) a tier of 'cold'"), nil).Once()
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "cache-mode", "hot", "readonly", "--yes-i-really-mean-it").
		Return(tests.Ok("", "set cache_mode for pool 'hot' to readonly"), nil).Once()
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "set-overlay", "cold", "hot").
		Return(tests.Ok("", "overlay for 'cold' is now (or already was) 'hot'"), nil).Once()
	processExec = r

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, readonlyTier, false)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.False(s.T(), result.Changed)
	assert.Equal(s.T(), types.OutcomeUnconfirmed, result.Outcome)
	assert.Len(s.T(), result.Warnings, 1)
	assert.Contains(s.T(), result.Warnings[0], "set-cache-mode")
}

func (s *tierSuite) TestConvergedTierIsNoop() {
	c := mocks.NewCluster(s.T())
	addTierPools(c, attachedDump)

	r := mocks.NewRunner(s.T())
	processExec = r

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, readonlyTier, false)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.False(s.T(), result.Changed)
	assert.Equal(s.T(), types.OutcomeOk, result.Outcome)
	r.AssertNumberOfCalls(s.T(), "RunCommand", 0)
}

func (s *tierSuite) TestChangeCacheMode() {
	c := mocks.NewCluster(s.T())
	addTierPools(c, attachedDump)

	r := mocks.NewRunner(s.T())
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "cache-mode", "hot", "writeback").
		Return(tests.Ok("", "set cache-mode for pool 'hot' to writeback"), nil).Once()
	processExec = r

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, map[string]any{
		"storage_pool": "cold",
		"cache_pool":   "hot",
		"set_overlay":  true,
	}, false)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.True(s.T(), result.Changed)
	assert.Equal(s.T(), []string{"set-cache-mode"}, stepActions(result))
}

func (s *tierSuite) TestDetachTier() {
	c := mocks.NewCluster(s.T())
	addTierPools(c, attachedDump)

	r := mocks.NewRunner(s.T())
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "remove-overlay", "cold").
		Return(tests.Ok("", "there is now (or already was) no overlay for 'cold'"), nil).Once()
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "remove", "cold", "hot").
		Return(tests.Ok("", "pool 'hot' is now (or already was) not a tier of 'cold'"), nil).Once()
	processExec = r

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, map[string]any{
		"storage_pool": "cold",
		"cache_pool":   "hot",
		"state":        "absent",
	}, false)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.True(s.T(), result.Changed)
	assert.Equal(s.T(), []string{"remove-overlay", "remove-tier"}, stepActions(result))
}

func (s *tierSuite) TestMissingCachePool() {
	c := mocks.NewCluster(s.T())
	c.On("ListPools").Return([]string{"cold"}, nil).Once()
	c.On("Shutdown").Once()

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, readonlyTier, false)

	assert.True(s.T(), result.Failed)
	assert.Equal(s.T(), "cache_pool does not exist", result.Msg)
	c.AssertNotCalled(s.T(), "MonCommand", mock.Anything)
}

func (s *tierSuite) TestSamePools() {
	connects := 0
	i := Invoker{Connect: connectTo(mocks.NewCluster(s.T()), &connects)}
	result := i.Apply(context.Background(), types.ModuleTier, map[string]any{"storage_pool": "cold", "cache_pool": "cold"}, false)

	assert.True(s.T(), result.Failed)
	assert.Equal(s.T(), "storage_pool and cache_pool must differ", result.Msg)
	assert.Equal(s.T(), 0, connects)
}

func (s *tierSuite) TestFailureStopsSequence() {
	c := mocks.NewCluster(s.T())
	addTierPools(c, detachedDump)

	r := mocks.NewRunner(s.T())
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "add", "cold", "hot").
		Return(tests.Ok("", "pool 'hot' is now (or already was) a tier of 'cold'"), nil).Once()
	r.On("RunCommand", mock.Anything, "ceph", "osd", "tier", "cache-mode", "hot", "readonly", "--yes-i-really-mean-it").
		Return(tests.Failed(22, "Error EINVAL: unknown cache mode"), nil).Once()
	processExec = r

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, readonlyTier, false)

	assert.True(s.T(), result.Failed)
	assert.Equal(s.T(), types.OutcomeFailed, result.Outcome)
	assert.Equal(s.T(), "set-cache-mode failed with rc 22: Error EINVAL: unknown cache mode", result.Msg)
	assert.Equal(s.T(), []string{"attach-tier", "set-cache-mode"}, stepActions(result))
	r.AssertNotCalled(s.T(), "RunCommand", mock.Anything, "ceph", "osd", "tier", "set-overlay", "cold", "hot")
}

func (s *tierSuite) TestDryRunListsSteps() {
	c := mocks.NewCluster(s.T())
	addTierPools(c, detachedDump)

	r := mocks.NewRunner(s.T())
	processExec = r

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleTier, readonlyTier, true)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.True(s.T(), result.Changed)
	assert.True(s.T(), result.DryRun)
	assert.Len(s.T(), result.Steps, 3)
	for _, step := range result.Steps {
		assert.Equal(s.T(), types.OutcomePlanned, step.Outcome)
	}
	assert.Equal(s.T(), "ceph osd tier cache-mode hot readonly --yes-i-really-mean-it", result.Steps[1].Cmd)
	r.AssertNumberOfCalls(s.T(), "RunCommand", 0)
}

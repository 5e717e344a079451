package ceph

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/mocks"
	"github.com/cephmod/cephmod/tests"
)

func TestStatus(t *testing.T) {
	suite.Run(t, new(statusSuite))
}

// statusSuite is the test suite for the status module.
type statusSuite struct {
	tests.BaseSuite
}

func (s *statusSuite) TestClusterStatus() {
	status := `{"fsid":"6a3b1c2e-0000-4000-8000-000000000001","health":{"status":"HEALTH_OK"}}`

	c := mocks.NewCluster(s.T())
	c.On("MonCommand", tests.MonPrefix("status")).Return(tests.Ok(status, ""), nil).Once()
	c.On("Shutdown").Once()

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleStatus, map[string]any{"cmd": "status"}, false)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.False(s.T(), result.Changed)
	assert.Equal(s.T(), types.OutcomeOk, result.Outcome)
	assert.Equal(s.T(), "ceph status --format=json", result.Cmd)
	assert.JSONEq(s.T(), status, string(result.Facts["ceph_status"]))

	data, err := json.Marshal(result)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "HEALTH_OK", gjson.GetBytes(data, "ceph_status.health.status").String())
}

func (s *statusSuite) TestQuorumStatus() {
	quorum := `{"election_epoch":12,"quorum":[0,1,2],"quorum_names":["a","b","c"]}`

	c := mocks.NewCluster(s.T())
	c.On("MonCommand", tests.MonPrefix("quorum_status")).Return(tests.Ok(quorum, ""), nil).Once()
	c.On("Shutdown").Once()

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleStatus, map[string]any{"cmd": "quorum_status"}, false)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.Equal(s.T(), "ceph quorum_status", result.Cmd)
	assert.JSONEq(s.T(), quorum, string(result.Facts["quorum_status"]))
}

func (s *statusSuite) TestQueriesRunOnDryRun() {
	c := mocks.NewCluster(s.T())
	c.On("MonCommand", tests.MonPrefix("status")).Return(tests.Ok(`{}`, ""), nil).Once()
	c.On("Shutdown").Once()

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleStatus, map[string]any{"cmd": "status"}, true)

	assert.False(s.T(), result.Failed, result.Msg)
	assert.False(s.T(), result.Changed)
	assert.Contains(s.T(), result.Facts, "ceph_status")
}

func (s *statusSuite) TestUnknownCommand() {
	connects := 0
	i := Invoker{Connect: connectTo(mocks.NewCluster(s.T()), &connects)}
	result := i.Apply(context.Background(), types.ModuleStatus, map[string]any{"cmd": "health"}, false)

	assert.True(s.T(), result.Failed)
	assert.Equal(s.T(), "value of cmd must be one of: status, quorum_status, got: health", result.Msg)
	assert.Equal(s.T(), 0, connects)
}

func (s *statusSuite) TestMissingCommand() {
	i := Invoker{Connect: unreachable}
	result := i.Apply(context.Background(), types.ModuleStatus, map[string]any{}, false)

	assert.True(s.T(), result.Failed)
	assert.Equal(s.T(), "missing required arguments: cmd", result.Msg)
}

func (s *statusSuite) TestMonCommandError() {
	c := mocks.NewCluster(s.T())
	c.On("MonCommand", tests.MonPrefix("status")).Return(tests.Failed(-110, ""), nil).Once()
	c.On("Shutdown").Once()

	i := Invoker{Connect: connectTo(c, nil)}
	result := i.Apply(context.Background(), types.ModuleStatus, map[string]any{"cmd": "status"}, false)

	assert.True(s.T(), result.Failed)
	assert.Equal(s.T(), "Error: -110 ETIMEDOUT", result.Msg)
	assert.NotContains(s.T(), result.Facts, "ceph_status")
}

package ceph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/tests"
)

func TestParams(t *testing.T) {
	suite.Run(t, new(paramsSuite))
}

// paramsSuite is the test suite for decoding module parameters.
type paramsSuite struct {
	tests.BaseSuite
}

func (s *paramsSuite) TestWeakTypes() {
	p := types.TierParams{State: types.StatePresent, CacheMode: "writeback", ConnParams: types.DefaultConnParams()}
	err := decodeParams(map[string]any{
		"storage_pool":    "cold",
		"cache_pool":      "hot",
		"set_overlay":     "yes",
		"force_nonempty":  "off",
		"connect_timeout": "10",
	}, &p)

	assert.NoError(s.T(), err)
	assert.True(s.T(), p.SetOverlay)
	assert.False(s.T(), p.ForceNonempty)
	assert.Equal(s.T(), "writeback", p.CacheMode)
	assert.Equal(s.T(), 10, p.ConnectTimeout)
	assert.Equal(s.T(), "client.admin", p.ClientName)
}

func (s *paramsSuite) TestOptionalIntegers() {
	p := types.PoolParams{State: types.StatePresent, Type: "replicated", ConnParams: types.DefaultConnParams()}
	err := decodeParams(map[string]any{"name": "data", "pgnum": "64"}, &p)

	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), p.PgNum)
	assert.Equal(s.T(), 64, *p.PgNum)
	assert.Nil(s.T(), p.PgpNum)
}

func (s *paramsSuite) TestInvalidBoolean() {
	p := types.MapParams{State: types.StatePresent}
	err := decodeParams(map[string]any{"name": "vol1", "read_only": "maybe"}, &p)

	var validationErr *ValidationError
	assert.ErrorAs(s.T(), err, &validationErr)
	assert.Contains(s.T(), err.Error(), "'maybe' is not a valid boolean")
}

func (s *paramsSuite) TestValidationMessages() {
	p := types.ImageParams{State: "gone", ConnParams: types.DefaultConnParams()}
	err := decodeParams(map[string]any{"image_format": 3}, &p)

	assert.Error(s.T(), err)
	assert.Contains(s.T(), err.Error(), "missing required arguments: name; value of state must be one of: present, absent, got: gone")
	assert.Contains(s.T(), err.Error(), "value of image_format must be one of: 1, 2")
}

func (s *paramsSuite) TestNegativeTimeout() {
	p := types.StatusParams{Cmd: "status", ConnParams: types.DefaultConnParams()}
	err := decodeParams(map[string]any{"connect_timeout": -1}, &p)

	assert.EqualError(s.T(), err, "invalid value for connect_timeout: -1 (must satisfy gte 0)")
}

// Package tests holds helpers shared by the package test suites.
package tests

import (
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"

	"github.com/cephmod/cephmod/api/types"
)

// BaseSuite is embedded by the package test suites.
type BaseSuite struct {
	suite.Suite
}

// MonPrefix matches a mon command document by its prefix.
func MonPrefix(prefix string) interface{} {
	return mock.MatchedBy(func(args []byte) bool {
		return gjson.GetBytes(args, "prefix").String() == prefix
	})
}

// Ok is a successful command output with the given streams.
func Ok(stdout string, stderr string) types.CommandOutput {
	return types.CommandOutput{Stdout: stdout, Stderr: stderr}
}

// Failed is a command output with a non-zero status.
func Failed(rc int, stderr string) types.CommandOutput {
	return types.CommandOutput{RC: rc, Stderr: stderr}
}

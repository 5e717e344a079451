package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/canonical/lxd/lxd/response"
	"github.com/canonical/lxd/shared/logger"
	"github.com/gorilla/mux"

	"github.com/cephmod/cephmod/api/types"
	"github.com/cephmod/cephmod/ceph"
)

// /1.0/modules endpoint.
var modulesCmd = endpoint{
	Path: "modules",
	Get:  cmdGetModules,
}

// /1.0/modules/{module} endpoint.
var moduleCmd = endpoint{
	Path: "modules/{module}",
	Post: cmdPostModule,
}

// cmdGetModules lists the modules and their parameters.
func cmdGetModules(s *Server, r *http.Request) response.Response {
	return response.SyncResponse(true, ceph.ListModules())
}

// cmdPostModule runs one invocation of a module. A failed invocation is still a successful
// request; the failure is reported in the result.
func cmdPostModule(s *Server, r *http.Request) response.Response {
	module := mux.Vars(r)["module"]

	known := slices.ContainsFunc(ceph.ListModules(), func(m types.ModuleInfo) bool {
		return m.Name == module
	})
	if !known {
		return response.NotFound(fmt.Errorf("unknown module '%s'", module))
	}

	var req types.ApplyRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Errorf("failed decoding body: %v", err)
		return response.BadRequest(fmt.Errorf("failed decoding body: %w", err))
	}

	result := s.Applier.Apply(r.Context(), module, req.Args, req.CheckMode)
	if result.Failed {
		logger.Errorf("%s invocation %s failed: %s", module, result.InvocationID, result.Msg)
	}

	return response.SyncResponse(true, result)
}

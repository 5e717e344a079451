// Package api exposes module invocations over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/canonical/lxd/lxd/response"
	"github.com/canonical/lxd/shared/logger"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cephmod/cephmod/api/types"
)

// Applier runs module invocations.
type Applier interface {
	Apply(ctx context.Context, module string, args map[string]any, dryRun bool) types.Result
}

// Server holds what the endpoints share.
type Server struct {
	Applier Applier
}

type handlerFunc func(s *Server, r *http.Request) response.Response

// endpoint binds handlers to a path below the API version prefix.
type endpoint struct {
	Path string
	Get  handlerFunc
	Post handlerFunc
}

var endpoints = []endpoint{
	modulesCmd,
	moduleCmd,
}

// Router returns the handler serving the API and the metrics endpoint.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())

	versioned := router.PathPrefix("/" + types.APIVersion).Subrouter()
	for _, e := range endpoints {
		if e.Get != nil {
			versioned.HandleFunc("/"+e.Path, s.handle(e.Get)).Methods(http.MethodGet)
		}
		if e.Post != nil {
			versioned.HandleFunc("/"+e.Path, s.handle(e.Post)).Methods(http.MethodPost)
		}
	}

	return router
}

func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Handling API request", logger.Ctx{"method": r.Method, "url": r.URL.String(), "remote": r.RemoteAddr})
		err := h(s, r).Render(w)
		if err != nil {
			logger.Errorf("failed writing response: %v", err)
		}
	}
}

package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupRoutes injects inventory and ops related endpoints if required.
func (api *APIHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.HandleMethodNotAllowed = true
	router.NotFound = api.NotFound()
	api.SetupBookRoutes(router, m)
	api.SetupOrderRoutes(router, m)
	if api.config.OpsEndpointsEnable {
		api.SetupOpsRoutes(router, m)
	}
	return router
}

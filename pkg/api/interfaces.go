// Package api provides interfaces for dependency injection
package api

import "github.com/ssargent/btreemset/pkg/service"

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer starts the API server against the given multiset service
	StartServer(svc *service.MultisetService, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}

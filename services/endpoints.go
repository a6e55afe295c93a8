package services

import (
	"fmt"
	"net/http"

	"github.com/lborres/jokes/core"
)

// Operation ids shared by SiteEndpoints and the HTTP adapters.
const (
	OpRandomJoke     = "randomJoke"
	OpNewJokeForm    = "newJokeForm"
	OpCreateJoke     = "createJoke"
	OpGetJoke        = "getJoke"
	OpDeleteJoke     = "deleteJoke"
	OpLogin          = "login"
	OpLogout         = "logout"
	OpLogoutRedirect = "logoutRedirect"
	OpCurrentUser    = "currentUser"
	OpHealth         = "health"
)

// SiteEndpoints returns framework-agnostic route definitions for the site.
//
// Order matters: static segments come before parameterized ones that could
// shadow them (/jokes/new before /jokes/:jokeId).
func SiteEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/jokes",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpRandomJoke,
				Description: "Random joke with the latest jokes and the current user",
			},
		},
		{
			Path:   "/jokes/new",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpNewJokeForm,
				Description: "Check that the visitor may create a joke",
				Protected:   true,
			},
		},
		{
			Path:   "/jokes/new",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpCreateJoke,
				Description: "Create a joke owned by the current user",
				Protected:   true,
			},
		},
		{
			Path:   "/jokes/:jokeId",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpGetJoke,
				Description: "Joke detail, flagged when the current user owns it",
			},
		},
		{
			Path:   "/jokes/:jokeId",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpDeleteJoke,
				Description: "Delete a joke owned by the current user (intent=delete)",
				Protected:   true,
			},
		},
		{
			Path:   "/login",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpLogin,
				Description: "Log in or register with username and password",
			},
		},
		{
			Path:   "/logout",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpLogout,
				Description: "Destroy the session and go to the login page",
			},
		},
		{
			Path:   "/logout",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpLogoutRedirect,
				Description: "Redirect home without touching the session",
			},
		},
		{
			Path:   "/api/user",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpCurrentUser,
				Description: "Current user identity or null",
			},
		},
		{
			Path:   "/healthz",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpHealth,
				Description: "Database reachability",
			},
		},
	}
}

// EndpointRegistry keeps endpoints in registration order and rejects
// duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	endpoints []*core.Endpoint
	index     map[string]*core.Endpoint
}

// NewEndpointRegistry creates a registry with every site endpoint registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{index: make(map[string]*core.Endpoint)}

	// SiteEndpoints has no duplicates
	_ = reg.Register(SiteEndpoints())

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

// Register adds endpoints after the existing ones. If any conflicts with a
// registered endpoint, or with another in the same batch, none are added.
func (r *EndpointRegistry) Register(endpoints []core.Endpoint) error {
	seen := make(map[string]bool, len(endpoints))
	for i := range endpoints {
		key := endpointKey(&endpoints[i])

		if _, exists := r.index[key]; exists {
			return fmt.Errorf("endpoint conflict: %s %s already registered", endpoints[i].Method, endpoints[i].Path)
		}
		if seen[key] {
			return fmt.Errorf("duplicate endpoint in batch: %s %s", endpoints[i].Method, endpoints[i].Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		ep := endpoints[i]
		r.endpoints = append(r.endpoints, &ep)
		r.index[endpointKey(&ep)] = &ep
	}
	return nil
}

// Lookup finds the endpoint registered for method and path.
func (r *EndpointRegistry) Lookup(method, path string) (*core.Endpoint, bool) {
	ep, ok := r.index[method+":"+path]
	return ep, ok
}

// Endpoints returns the registered endpoints in registration order.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	out := make([]*core.Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

package core

// Endpoint describes one route of the site independent of the HTTP framework.
// Adapters resolve Metadata.OperationID to their own handler.
type Endpoint struct {
	Path     string
	Method   string
	Metadata EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
	// Protected endpoints read the session cookie to authorize the request.
	Protected bool
}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Error string `json:"error"`
}

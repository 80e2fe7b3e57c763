package api

// APIResponse is the standard envelope every endpoint responds with.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// InsertRequest is the body of POST /api/v1/keys.
type InsertRequest struct {
	Key string `json:"key"`
}

// StatsResponse reports the instrumentation gauge described on
// service.MultisetService.ApproxSize.
type StatsResponse struct {
	ApproxSize int64 `json:"approx_size"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Port   int
	Degree int
}

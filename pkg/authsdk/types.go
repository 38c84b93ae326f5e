package authsdk

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// IdentityResponse describes an authenticated principal.
type IdentityResponse struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// IndexResponse is returned by the public landing endpoint.
type IndexResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// HealthResponse is returned by /livez and /readyz. Checks is only set by
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of the service's dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

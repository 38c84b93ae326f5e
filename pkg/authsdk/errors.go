package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/crumb/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthenticated    = httpx.ErrorCodeUnauthenticated
	ErrorCodeAccessDenied       = httpx.ErrorCodeAccessDenied
	ErrorCodeRateLimited        = httpx.ErrorCodeRateLimited
	ErrorCodeServerError        = "server_error"
)

// APIError is an error response of the service. Handlers write it with
// WriteError, the client returns it from failed calls.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes e as a JSON error response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// Is matches APIErrors by status and code so errors.Is works against the
// predefined values.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidContentType = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "content-type must be application/x-www-form-urlencoded",
	}

	ErrMethodNotAllowed = &APIError{
		StatusCode:  http.StatusMethodNotAllowed,
		Code:        ErrorCodeInvalidRequest,
		Description: "method not allowed",
	}

	// ErrInvalidCredentials covers unknown users and wrong passwords alike.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid username or password",
	}

	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "authentication required",
	}

	ErrAccessDenied = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccessDenied,
		Description: "insufficient authority",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError builds an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

// parseErrorResponse turns a non-success response into an *APIError,
// synthesising one from the status when the body is not an error document.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

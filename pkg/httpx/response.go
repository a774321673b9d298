package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// Error type names surfaced in the JSON error envelope. Clients branch on
// these, so they are part of the API contract.
const (
	TypeValidation     = "ValidationError"
	TypeAuthentication = "AuthenticationError"
	TypeToken          = "TokenError"
	TypeSession        = "SessionError"
	TypeAuthorization  = "AuthorizationError"
	TypeNotFound       = "NotFoundError"
	TypeServer         = "ServerError"
)

// Meta annotates every envelope with the response time and the request id
// echoed from the X-Request-ID header.
type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId,omitempty"`
}

// Envelope is the success response shape: {success, code, message, data, meta}.
type Envelope struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    Meta   `json:"meta"`
}

// ErrorBody carries the typed error inside the failure envelope.
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorEnvelope is the failure response shape: {success, code, error, meta}.
type ErrorEnvelope struct {
	Success bool      `json:"success"`
	Code    int       `json:"code"`
	Error   ErrorBody `json:"error"`
	Meta    Meta      `json:"meta"`
}

// APIError is an error that knows its HTTP status and envelope type. Handlers
// map service errors into these; middleware writes them directly.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

// WriteError writes the failure envelope for e.
func (e *APIError) WriteError(w http.ResponseWriter) {
	WriteJSON(w, e.Status, ErrorEnvelope{
		Success: false,
		Code:    e.Status,
		Error:   ErrorBody{Type: e.Type, Message: e.Message},
		Meta:    newMeta(w),
	})
}

// NewAPIError constructs an APIError.
func NewAPIError(status int, errType, message string) *APIError {
	return &APIError{Status: status, Type: errType, Message: message}
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes the success envelope.
func WriteSuccess(w http.ResponseWriter, code int, message string, data any) {
	WriteJSON(w, code, Envelope{Success: true, Code: code, Message: message, Data: data, Meta: newMeta(w)})
}

// newMeta must run before the body is written so the header is still readable.
func newMeta(w http.ResponseWriter) Meta {
	return Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: w.Header().Get("X-Request-ID"),
	}
}

// WriteError writes a typed failure envelope.
func WriteError(w http.ResponseWriter, code int, errType, message string) {
	NewAPIError(code, errType, message).WriteError(w)
}

// NoCache sets headers preventing caching. Required for token responses.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

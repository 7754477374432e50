package types

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"todo with id 999 not found"`
}

package models

// Error is the error body in the JSON envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

// Sheet is the uniform shape every parser produces: a header row plus data
// rows keyed by header.
type Sheet struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

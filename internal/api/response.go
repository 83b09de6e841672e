// file: internal/api/response.go
// version: 1.0.0
// guid: 9c2d4e6f-1a3b-4c5d-8e7f-0b1c2d3e4f5a

package api

import "time"

// Response is the uniform envelope around every API response, success or
// failure. Success is true exactly when Error is nil; Data and Error are
// mutually exclusive.
type Response struct {
	Success    bool        `json:"success"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ErrorBody is the serialized form of an Error inside the envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count from a total and limit.
func NewPagination(page, limit, total int) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// OK builds a success envelope.
func OK(data any) Response {
	return Response{Success: true, Timestamp: time.Now().UTC(), Data: data}
}

// Page builds a success envelope with pagination info.
func Page(data any, p *Pagination) Response {
	return Response{Success: true, Timestamp: time.Now().UTC(), Data: data, Pagination: p}
}

// Fail builds a failure envelope from a declared pipeline error.
func Fail(err *Error) Response {
	return Response{
		Success:   false,
		Timestamp: time.Now().UTC(),
		Error: &ErrorBody{
			Code:    string(err.Code),
			Message: err.Message,
			Details: err.Details,
		},
	}
}

package protocol

import (
	"encoding/json"
	"fmt"
)

// Error codes
const (
	CodeInvalidPage      = "invalid_page"
	CodeInvalidArgument  = "invalid_argument"
	CodeInsufficientData = "insufficient_data"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal"
)

// Envelope - paginated blogs packet
type Envelope struct {
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
	Next  *int              `json:"next"`
	Prev  *int              `json:"prev"`
	Count int               `json:"count"`
	Blogs []json.RawMessage `json:"blogs"`
}

// JSON - convert struct to json
func (e *Envelope) JSON() ([]byte, error) {
	if e.Blogs == nil {
		e.Blogs = []json.RawMessage{}
	}
	return json.Marshal(e)
}

// FromJSON - convert json to struct
func (e *Envelope) FromJSON(data []byte) error {
	return json.Unmarshal(data, e)
}

// String representation
func (e *Envelope) String() string {
	return fmt.Sprintf("page=%d pages=%d next=%s prev=%s count=%d blogs=%d",
		e.Page, e.Pages, optional(e.Next), optional(e.Prev), e.Count, len(e.Blogs))
}

// ErrorBody ...
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse - error packet
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// NewErrorResponse ...
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{Error: ErrorBody{Code: code, Message: message}}
}

// JSON - convert struct to json
func (r *ErrorResponse) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON - convert json to struct
func (r *ErrorResponse) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// String representation
func (r *ErrorResponse) String() string {
	return fmt.Sprintf("code=%s message=%s", r.Error.Code, r.Error.Message)
}

func optional(v *int) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprint(*v)
}

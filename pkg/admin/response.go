package admin

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ottermq/brokeradmin/internal/core/models"
)

// Response is the raw outcome of a management API call.
type Response struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

// unsupportedDefinitions is returned by SetDefinitions for input it cannot
// turn into a definitions document. No request is made.
func unsupportedDefinitions() *Response {
	return &Response{
		StatusCode: http.StatusUnsupportedMediaType,
		Status:     "415 Unsupported definitions type",
		Body:       []byte("Unsupported definitions type"),
	}
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Failed reports a status of 300 or above. A nil response did not fail, it
// was never sent.
func (r *Response) Failed() bool {
	return r != nil && r.StatusCode >= http.StatusMultipleChoices
}

// Text returns the body as a string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if r == nil {
		return fmt.Errorf("no response")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Definitions decodes the body as a definitions document.
func (r *Response) Definitions() (models.Definitions, error) {
	if r == nil {
		return nil, fmt.Errorf("no response")
	}
	return models.DecodeDefinitions(r.Body)
}

// definitionsBody checks that the body is a definitions document and returns
// it untouched, so key order survives. An empty document is sent as {}.
func (r *Response) definitionsBody() (json.RawMessage, error) {
	defs, err := r.Definitions()
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(r.Body), nil
}

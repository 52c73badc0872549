package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/rs/zerolog/log"
)

// GetDefinitions exports the broker definitions. Any status other than 200 is
// logged and yields an empty document with a nil error.
func (c *Client) GetDefinitions(ctx context.Context) (models.Definitions, error) {
	res, err := c.apiGet(ctx, endpointDefinitions)
	if err != nil {
		return models.Definitions{}, err
	}

	if res.StatusCode != http.StatusOK {
		log.Warn().
			Str("broker", c.base).
			Int("status", res.StatusCode).
			Str("body", res.Text()).
			Msg("Error to get definitions")
		return models.Definitions{}, nil
	}

	defs, err := res.Definitions()
	if err != nil {
		return models.Definitions{}, err
	}
	return defs, nil
}

// ExportDefinitions fetches the definitions and returns the raw response,
// which SetDefinitions accepts as is.
func (c *Client) ExportDefinitions(ctx context.Context) (*Response, error) {
	return c.apiGet(ctx, endpointDefinitions)
}

// SetDefinitions imports a definitions document into the broker. It accepts
// the document itself (models.Definitions or map[string]any) or a Response
// previously returned by ExportDefinitions, whose body is posted as received.
// Anything else is answered with a synthesized 415 response and no request.
//
// The raw response is returned; a failed status is only logged.
func (c *Client) SetDefinitions(ctx context.Context, definitions any) (*Response, error) {
	var payload any
	var err error

	switch v := definitions.(type) {
	case models.Definitions:
		payload = v
		if v == nil {
			payload = models.Definitions{}
		}
	case map[string]any:
		payload = models.Definitions(v)
		if v == nil {
			payload = models.Definitions{}
		}
	case *Response:
		if v == nil {
			return c.rejectDefinitions(definitions), nil
		}
		payload, err = v.definitionsBody()
	case Response:
		payload, err = v.definitionsBody()
	default:
		return c.rejectDefinitions(definitions), nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid definitions response: %w", err)
	}

	res, err := c.apiPost(ctx, endpointDefinitions, payload)
	if err != nil {
		return nil, err
	}
	if res.Failed() {
		log.Warn().
			Str("broker", c.base).
			Int("status", res.StatusCode).
			Str("body", res.Text()).
			Msg("Error to set definitions")
	}
	return res, nil
}

func (c *Client) rejectDefinitions(definitions any) *Response {
	log.Warn().
		Str("broker", c.base).
		Str("type", fmt.Sprintf("%T", definitions)).
		Msg("Invalid definitions")
	return unsupportedDefinitions()
}

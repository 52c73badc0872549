package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/rs/zerolog/log"
)

// ErrInvalidSource is returned by CreateShovels when no source broker is given.
var ErrInvalidSource = errors.New("invalid source broker")

// Source is the broker shovels pull from. *Client implements it.
type Source interface {
	Host() string
	GetQueues(ctx context.Context, excludeEmpty bool) ([]string, error)
}

var _ Source = (*Client)(nil)

type shovelOpts struct {
	srcPort  string
	destPort string
}

// ShovelOpt overrides the AMQP ports written into shovel URIs.
type ShovelOpt func(*shovelOpts)

// WithSourcePort sets the AMQP port of the source broker (default 5672).
func WithSourcePort(port string) ShovelOpt {
	return func(o *shovelOpts) {
		if port != "" {
			o.srcPort = port
		}
	}
}

// WithDestPort sets the AMQP port of the destination broker (default 5672).
func WithDestPort(port string) ShovelOpt {
	return func(o *shovelOpts) {
		if port != "" {
			o.destPort = port
		}
	}
}

func applyShovelOpts(opts ...ShovelOpt) shovelOpts {
	o := shovelOpts{srcPort: models.DefaultAMQPPort, destPort: models.DefaultAMQPPort}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CreateQueueShovel creates a dynamic shovel named "shovel-<queue>" on this
// broker, moving queueName from srcHost to the queue of the same name on
// destHost. An empty queueName is a no-op returning a nil response.
func (c *Client) CreateQueueShovel(ctx context.Context, queueName, srcHost, destHost string, opts ...ShovelOpt) (*Response, error) {
	if queueName == "" {
		return nil, nil
	}

	o := applyShovelOpts(opts...)
	shovel := models.NewQueueShovel(queueName, srcHost, o.srcPort, destHost, o.destPort)

	res, err := c.apiPut(ctx, shovelEndpoint(shovel.Name), shovel)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordShovelCreated(res.OK())
	}
	if res.Failed() {
		log.Warn().
			Str("broker", c.base).
			Str("queue", queueName).
			Int("status", res.StatusCode).
			Str("body", res.Text()).
			Msg("Error to create queue shovel")
	}
	return res, nil
}

// CreateShovels creates one shovel per queue of source, pulling into the queue
// of the same name on this broker. Queues are those reported by
// source.GetQueues(excludeEmpty). There is no rollback: on a transport error
// the responses gathered so far are returned with the error.
func (c *Client) CreateShovels(ctx context.Context, source Source, excludeEmpty bool, opts ...ShovelOpt) ([]*Response, error) {
	if source == nil {
		return nil, ErrInvalidSource
	}
	if sc, ok := source.(*Client); ok && sc == nil {
		return nil, ErrInvalidSource
	}

	queues, err := source.GetQueues(ctx, excludeEmpty)
	if err != nil {
		return nil, err
	}
	if len(queues) == 0 {
		log.Info().Str("source", source.Host()).Msg("No queues found")
		return nil, nil
	}

	responses := make([]*Response, 0, len(queues))
	for _, q := range queues {
		res, err := c.CreateQueueShovel(ctx, q, source.Host(), c.host, opts...)
		if err != nil {
			return responses, err
		}
		responses = append(responses, res)
	}
	return responses, nil
}

// ListShovels returns the shovels running on the default vhost. On a status
// other than 200 the shovel list is nil and the response tells why.
func (c *Client) ListShovels(ctx context.Context) ([]models.ShovelDTO, *Response, error) {
	res, err := c.apiGet(ctx, endpointShovels)
	if err != nil {
		return nil, nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, res, nil
	}

	var shovels []models.ShovelDTO
	if err := res.JSON(&shovels); err != nil {
		return nil, res, err
	}
	return shovels, res, nil
}

// DeleteShovel removes the named shovel parameter. An empty name is a no-op
// returning a nil response.
func (c *Client) DeleteShovel(ctx context.Context, shovelName string) (*Response, error) {
	if shovelName == "" {
		return nil, nil
	}

	res, err := c.apiDelete(ctx, shovelEndpoint(shovelName))
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.RecordShovelDeleted(res.OK())
	}
	if res.Failed() {
		log.Warn().
			Str("broker", c.base).
			Str("shovel", shovelName).
			Int("status", res.StatusCode).
			Str("body", res.Text()).
			Msg("Error to delete shovel")
	}
	return res, nil
}

// DeleteShovels calls DeleteShovel for every listed shovel, in list order,
// returning one entry per shovel. If the list cannot be fetched the failure is
// logged and nothing is deleted.
func (c *Client) DeleteShovels(ctx context.Context) ([]*Response, error) {
	shovels, res, err := c.ListShovels(ctx)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		log.Warn().
			Str("broker", c.base).
			Int("status", res.StatusCode).
			Str("body", res.Text()).
			Msg("Error to get shovels list")
		return nil, nil
	}

	responses := make([]*Response, 0, len(shovels))
	for _, s := range shovels {
		r, err := c.DeleteShovel(ctx, s.Name)
		if err != nil {
			return responses, err
		}
		responses = append(responses, r)
	}
	return responses, nil
}

package admin

import (
	"context"

	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/rs/zerolog/log"
)

// GetQueues returns the names of the broker's queues in the order the broker
// lists them. With excludeEmpty, queues without a positive "messages" count
// are left out. A failed status is logged and yields an empty list.
func (c *Client) GetQueues(ctx context.Context, excludeEmpty bool) ([]string, error) {
	queues, err := c.ListQueues(ctx)
	if err != nil {
		return []string{}, err
	}
	return models.MapQueueNames(queues, excludeEmpty), nil
}

// ListQueues returns the queue records behind GetQueues.
func (c *Client) ListQueues(ctx context.Context) ([]models.QueueDTO, error) {
	res, err := c.apiGet(ctx, endpointQueues)
	if err != nil {
		return []models.QueueDTO{}, err
	}

	if res.Failed() {
		log.Warn().
			Str("broker", c.base).
			Int("status", res.StatusCode).
			Str("body", res.Text()).
			Msg("Error to get queues")
		return []models.QueueDTO{}, nil
	}

	var queues []models.QueueDTO
	if err := res.JSON(&queues); err != nil {
		return []models.QueueDTO{}, err
	}
	return queues, nil
}

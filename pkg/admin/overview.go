package admin

import "context"

// Overview fetches api/overview. It is the cheapest authenticated call and
// is used to check that the management API is reachable.
func (c *Client) Overview(ctx context.Context) (*Response, error) {
	return c.apiGet(ctx, endpointOverview)
}

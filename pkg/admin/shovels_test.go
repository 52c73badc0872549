package admin

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSource is a Source that never touches the network.
type stubSource struct {
	host   string
	queues []string
	err    error
	calls  []bool
}

func (s *stubSource) Host() string { return s.host }

func (s *stubSource) GetQueues(_ context.Context, excludeEmpty bool) ([]string, error) {
	s.calls = append(s.calls, excludeEmpty)
	return s.queues, s.err
}

func TestCreateQueueShovel(t *testing.T) {
	c, mock := setupTestClient(t)

	res, err := c.CreateQueueShovel(context.Background(), "orders", "src", "dst")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	puts := mock.RequestsFor(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-orders", puts[0].Path)
	assert.JSONEq(t, `{
		"component": "shovel",
		"name": "shovel-orders",
		"value": {
			"src-uri": "amqp://src:5672",
			"src-queue": "orders",
			"dest-uri": "amqp://dst:5672",
			"dest-queue": "orders",
			"ack-mode": "on-confirm",
			"add-forward-headers": false,
			"delete-after": "never",
			"prefetch-count": 0,
			"reconnect-delay": 5
		}
	}`, string(puts[0].Body))
}

func TestCreateQueueShovel_Ports(t *testing.T) {
	c, mock := setupTestClient(t)

	_, err := c.CreateQueueShovel(context.Background(), "orders", "src", "dst", WithSourcePort("5673"), WithDestPort("5674"))
	require.NoError(t, err)

	puts := mock.RequestsFor(http.MethodPut)
	require.Len(t, puts, 1)

	var p models.ShovelParameter
	require.NoError(t, (&Response{Body: puts[0].Body}).JSON(&p))
	assert.Equal(t, "amqp://src:5673", p.Value.SrcURI)
	assert.Equal(t, "amqp://dst:5674", p.Value.DestURI)
}

func TestCreateQueueShovel_EscapesName(t *testing.T) {
	c, mock := setupTestClient(t)

	_, err := c.CreateQueueShovel(context.Background(), "billing events", "src", "dst")
	require.NoError(t, err)

	puts := mock.RequestsFor(http.MethodPut)
	require.Len(t, puts, 1)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-billing%20events", puts[0].Path)
	assert.Equal(t, "shovel-billing events", mock.Shovels()[0].Name)
}

func TestCreateQueueShovel_EmptyName(t *testing.T) {
	c, mock := setupTestClient(t)

	res, err := c.CreateQueueShovel(context.Background(), "", "src", "dst")
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.False(t, res.OK())
	assert.Empty(t, mock.Requests())
}

func TestCreateQueueShovel_FailedStatus(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.FailWith(http.MethodPut, "/api/parameters/shovel/%2F/shovel-orders", http.StatusBadRequest)

	res, err := c.CreateQueueShovel(context.Background(), "orders", "src", "dst")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.True(t, res.Failed())
}

func TestCreateShovels(t *testing.T) {
	ctx := context.Background()
	src, srcMock := setupTestClient(t)
	srcMock.SetQueues(
		models.QueueDTO{Name: "empty", Messages: messages(0)},
		models.QueueDTO{Name: "orders", Messages: messages(10)},
		models.QueueDTO{Name: "invoices", Messages: messages(1)},
	)
	dst, dstMock := setupTestClient(t)

	responses, err := dst.CreateShovels(ctx, src, true)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	for _, r := range responses {
		assert.True(t, r.OK())
	}

	puts := dstMock.RequestsFor(http.MethodPut)
	require.Len(t, puts, 2)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-orders", puts[0].Path)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-invoices", puts[1].Path)

	var p models.ShovelParameter
	require.NoError(t, (&Response{Body: puts[0].Body}).JSON(&p))
	assert.Equal(t, models.AMQPURI(src.Host(), "5672"), p.Value.SrcURI)
	assert.Equal(t, models.AMQPURI(dst.Host(), "5672"), p.Value.DestURI)

	// nothing is written on the source broker
	assert.Empty(t, srcMock.RequestsFor(http.MethodPut))
}

func TestCreateShovels_IncludeEmpty(t *testing.T) {
	dst, dstMock := setupTestClient(t)
	src := &stubSource{host: "rabbit-a", queues: []string{"a", "b", "c"}}

	responses, err := dst.CreateShovels(context.Background(), src, false, WithSourcePort("5673"))
	require.NoError(t, err)
	assert.Len(t, responses, 3)
	assert.Equal(t, []bool{false}, src.calls)
	assert.Len(t, dstMock.RequestsFor(http.MethodPut), 3)

	var p models.ShovelParameter
	require.NoError(t, (&Response{Body: dstMock.RequestsFor(http.MethodPut)[0].Body}).JSON(&p))
	assert.Equal(t, "amqp://rabbit-a:5673", p.Value.SrcURI)
}

func TestCreateShovels_NoQueues(t *testing.T) {
	dst, dstMock := setupTestClient(t)
	src := &stubSource{host: "rabbit-a"}

	responses, err := dst.CreateShovels(context.Background(), src, true)
	require.NoError(t, err)
	assert.Empty(t, responses)
	assert.Equal(t, []bool{true}, src.calls)
	assert.Empty(t, dstMock.Requests())
}

func TestCreateShovels_InvalidSource(t *testing.T) {
	dst, dstMock := setupTestClient(t)

	_, err := dst.CreateShovels(context.Background(), nil, true)
	assert.ErrorIs(t, err, ErrInvalidSource)

	var nilClient *Client
	_, err = dst.CreateShovels(context.Background(), nilClient, true)
	assert.ErrorIs(t, err, ErrInvalidSource)

	assert.Empty(t, dstMock.Requests())
}

func TestCreateShovels_SourceError(t *testing.T) {
	dst, dstMock := setupTestClient(t)
	boom := errors.New("boom")

	_, err := dst.CreateShovels(context.Background(), &stubSource{host: "a", err: boom}, true)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, dstMock.Requests())
}

func TestCreateShovels_StopsOnTransportError(t *testing.T) {
	dst := New("127.0.0.1", closedPort(t), "guest", "guest")

	responses, err := dst.CreateShovels(context.Background(), &stubSource{host: "a", queues: []string{"x", "y"}}, true)
	assert.Error(t, err)
	assert.Empty(t, responses)
}

func TestListShovels(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.SetShovels(models.ShovelDTO{Name: "shovel-a", VHost: "/", Type: "dynamic", State: "running"})

	shovels, res, err := c.ListShovels(context.Background())
	require.NoError(t, err)
	assert.True(t, res.OK())
	require.Len(t, shovels, 1)
	assert.Equal(t, "shovel-a", shovels[0].Name)
	assert.Equal(t, "running", shovels[0].State)

	requests := mock.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, "/api/shovels/%2F", requests[0].Path)
}

func TestDeleteShovel(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.SetShovels(models.ShovelDTO{Name: "shovel-orders"})

	res, err := c.DeleteShovel(context.Background(), "shovel-orders")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, mock.Shovels())

	deletes := mock.RequestsFor(http.MethodDelete)
	require.Len(t, deletes, 1)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-orders", deletes[0].Path)
}

func TestDeleteShovel_Missing(t *testing.T) {
	c, _ := setupTestClient(t)

	res, err := c.DeleteShovel(context.Background(), "shovel-ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.True(t, res.Failed())
}

func TestDeleteShovel_EmptyName(t *testing.T) {
	c, mock := setupTestClient(t)

	res, err := c.DeleteShovel(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Empty(t, mock.Requests())
}

func TestDeleteShovels(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.SetShovels(
		models.ShovelDTO{Name: "shovel-c"},
		models.ShovelDTO{Name: "shovel-a"},
		models.ShovelDTO{Name: "shovel-b"},
	)

	responses, err := c.DeleteShovels(context.Background())
	require.NoError(t, err)
	require.Len(t, responses, 3)

	deletes := mock.RequestsFor(http.MethodDelete)
	require.Len(t, deletes, 3)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-c", deletes[0].Path)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-a", deletes[1].Path)
	assert.Equal(t, "/api/parameters/shovel/%2F/shovel-b", deletes[2].Path)
	assert.Empty(t, mock.Shovels())
}

func TestDeleteShovels_UnnamedEntry(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.SetShovels(models.ShovelDTO{Name: "shovel-a"}, models.ShovelDTO{})

	responses, err := c.DeleteShovels(context.Background())
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.True(t, responses[0].OK())
	assert.Nil(t, responses[1])
	assert.Len(t, mock.RequestsFor(http.MethodDelete), 1)
}

func TestDeleteShovels_ListFailure(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.SetShovels(models.ShovelDTO{Name: "shovel-a"})
	mock.FailWith(http.MethodGet, "/api/shovels/%2F", http.StatusServiceUnavailable)

	responses, err := c.DeleteShovels(context.Background())
	require.NoError(t, err)
	assert.Nil(t, responses)
	assert.Empty(t, mock.RequestsFor(http.MethodDelete))
	assert.Len(t, mock.Shovels(), 1)
}

func TestCreateThenDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dst, mock := setupTestClient(t)

	_, err := dst.CreateShovels(ctx, &stubSource{host: "a", queues: []string{"q1", "q2"}}, true)
	require.NoError(t, err)
	assert.Len(t, mock.Shovels(), 2)

	_, err = dst.DeleteShovels(ctx)
	require.NoError(t, err)
	assert.Empty(t, mock.Shovels())
}

package admin

import (
	"context"
	"net/http"
	"testing"

	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDefinitions = `{
	"rabbit_version": "3.12.13",
	"users": [{"name": "guest", "tags": ["administrator"]}],
	"vhosts": [{"name": "/"}],
	"queues": [{"name": "orders", "vhost": "/", "durable": true, "arguments": {"x-max-length": 9007199254740993}}],
	"policies": []
}`

func TestGetDefinitions(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.SetDefinitions(sampleDefinitions)

	defs, err := c.GetDefinitions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "3.12.13", defs["rabbit_version"])
	assert.Len(t, defs["queues"], 1)

	requests := mock.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, http.MethodGet, requests[0].Method)
	assert.Equal(t, "/api/definitions", requests[0].Path)
}

func TestGetDefinitions_FailureReturnsEmpty(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.FailWith(http.MethodGet, "/api/definitions", http.StatusUnauthorized)

	defs, err := c.GetDefinitions(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, defs)
	assert.Empty(t, defs)
}

func TestSetDefinitions_Document(t *testing.T) {
	c, mock := setupTestClient(t)

	defs, err := models.DecodeDefinitions([]byte(sampleDefinitions))
	require.NoError(t, err)

	res, err := c.SetDefinitions(context.Background(), defs)
	require.NoError(t, err)
	assert.True(t, res.OK())

	posts := mock.RequestsFor(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Len(t, mock.Requests(), 1)
	assert.Equal(t, "/api/definitions", posts[0].Path)
	assert.JSONEq(t, sampleDefinitions, string(posts[0].Body))
	assert.Contains(t, string(posts[0].Body), "9007199254740993")
}

func TestSetDefinitions_PlainMap(t *testing.T) {
	c, mock := setupTestClient(t)

	res, err := c.SetDefinitions(context.Background(), map[string]any{"vhosts": []any{map[string]any{"name": "/"}}})
	require.NoError(t, err)
	assert.True(t, res.OK())

	posts := mock.RequestsFor(http.MethodPost)
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{"vhosts":[{"name":"/"}]}`, string(posts[0].Body))
}

func TestSetDefinitions_FromFetchedResponse(t *testing.T) {
	ctx := context.Background()
	src, srcMock := setupTestClient(t)
	srcMock.SetDefinitions(sampleDefinitions)
	dst, dstMock := setupTestClient(t)

	fetched, err := src.ExportDefinitions(ctx)
	require.NoError(t, err)
	require.True(t, fetched.OK())

	res, err := dst.SetDefinitions(ctx, fetched)
	require.NoError(t, err)
	assert.True(t, res.OK())

	posts := dstMock.RequestsFor(http.MethodPost)
	require.Len(t, posts, 1)
	assert.JSONEq(t, sampleDefinitions, string(posts[0].Body))
	assert.JSONEq(t, sampleDefinitions, string(dstMock.Definitions()))

	// by value as well
	res, err = dst.SetDefinitions(ctx, *fetched)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Len(t, dstMock.RequestsFor(http.MethodPost), 2)
}

func TestSetDefinitions_FetchedResponseKeepsKeyOrder(t *testing.T) {
	c, mock := setupTestClient(t)
	body := `{"zeta":1,"alpha":{"b":2,"a":1},"middle":[3,1,2]}`

	res, err := c.SetDefinitions(context.Background(), &Response{StatusCode: http.StatusOK, Body: []byte(body)})
	require.NoError(t, err)
	assert.True(t, res.OK())

	posts := mock.RequestsFor(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, body, string(posts[0].Body))
}

func TestSetDefinitions_FetchedNullPostsEmptyObject(t *testing.T) {
	c, mock := setupTestClient(t)

	_, err := c.SetDefinitions(context.Background(), Response{StatusCode: http.StatusOK, Body: []byte("null")})
	require.NoError(t, err)

	posts := mock.RequestsFor(http.MethodPost)
	require.Len(t, posts, 1)
	assert.Equal(t, `{}`, string(posts[0].Body))
}

func TestSetDefinitions_UnsupportedType(t *testing.T) {
	inputs := map[string]any{
		"string":       `{"users":[]}`,
		"int":          42,
		"nil":          nil,
		"slice":        []string{"a"},
		"nil_response": (*Response)(nil),
		"struct":       struct{ Name string }{"x"},
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			c, mock := setupTestClient(t)

			res, err := c.SetDefinitions(context.Background(), in)
			require.NoError(t, err)
			require.NotNil(t, res)
			assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
			assert.Equal(t, "415 Unsupported definitions type", res.Status)
			assert.True(t, res.Failed())
			assert.Empty(t, mock.Requests())
		})
	}
}

func TestSetDefinitions_InvalidResponseBody(t *testing.T) {
	c, mock := setupTestClient(t)

	_, err := c.SetDefinitions(context.Background(), &Response{StatusCode: 200, Body: []byte("<html>")})
	assert.Error(t, err)
	assert.Empty(t, mock.Requests())
}

func TestSetDefinitions_FailedStatusReturnsRawResponse(t *testing.T) {
	c, mock := setupTestClient(t)
	mock.FailWith(http.MethodPost, "/api/definitions", http.StatusBadRequest)

	res, err := c.SetDefinitions(context.Background(), models.Definitions{"users": []any{}})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, res.Text(), "forced failure")
}

func TestSetDefinitions_NilDocumentPostsEmptyObject(t *testing.T) {
	c, mock := setupTestClient(t)

	_, err := c.SetDefinitions(context.Background(), models.Definitions(nil))
	require.NoError(t, err)

	posts := mock.RequestsFor(http.MethodPost)
	require.Len(t, posts, 1)
	assert.JSONEq(t, `{}`, string(posts[0].Body))
}

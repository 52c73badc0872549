package testutil

import (
	"encoding/base64"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/ottermq/brokeradmin/internal/core/models"
	"github.com/stretchr/testify/require"
)

const shovelParamPrefix = "/api/parameters/shovel/%2F/"

// RecordedRequest is one request seen by MockManagement. Path is the path as
// sent on the wire, before any unescaping.
type RecordedRequest struct {
	Method   string
	Path     string
	User     string
	Password string
	Body     []byte
}

// MockManagement is a configurable test double for the broker management API.
// It listens on a loopback port and records every request it receives.
type MockManagement struct {
	app *fiber.App
	ln  net.Listener

	mu          sync.Mutex
	requests    []RecordedRequest
	definitions []byte
	queues      []models.QueueDTO
	shovels     []models.ShovelDTO
	failures    map[string]int
}

// NewMockManagement starts a mock management API that is shut down when the
// test ends.
func NewMockManagement(t testing.TB) *MockManagement {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	m := &MockManagement{
		ln:          ln,
		definitions: []byte(`{}`),
		failures:    make(map[string]int),
	}
	m.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	m.app.Use(m.handle)

	go func() {
		_ = m.app.Listener(ln)
	}()
	t.Cleanup(func() {
		_ = m.app.Shutdown()
	})
	return m
}

func (m *MockManagement) Host() string {
	return m.ln.Addr().(*net.TCPAddr).IP.String()
}

func (m *MockManagement) Port() string {
	return strconv.Itoa(m.ln.Addr().(*net.TCPAddr).Port)
}

// SetDefinitions sets the document served by GET /api/definitions.
func (m *MockManagement) SetDefinitions(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.definitions = []byte(raw)
}

// Definitions returns the last document posted (or set).
func (m *MockManagement) Definitions() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.definitions...)
}

func (m *MockManagement) SetQueues(queues ...models.QueueDTO) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues = append([]models.QueueDTO(nil), queues...)
}

func (m *MockManagement) SetShovels(shovels ...models.ShovelDTO) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shovels = append([]models.ShovelDTO(nil), shovels...)
}

// Shovels returns the shovels currently declared.
func (m *MockManagement) Shovels() []models.ShovelDTO {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ShovelDTO(nil), m.shovels...)
}

// FailWith makes method+path answer with status. The path is the wire path,
// e.g. "/api/shovels/%2F".
func (m *MockManagement) FailWith(method, path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method+" "+path] = status
}

// Requests returns a copy of every request received so far.
func (m *MockManagement) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// RequestsFor filters Requests by method.
func (m *MockManagement) RequestsFor(method string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range m.Requests() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

func (m *MockManagement) handle(c *fiber.Ctx) error {
	path := string(c.Request().URI().PathOriginal())
	method := c.Method()
	user, pass := basicAuth(c.Get(fiber.HeaderAuthorization))

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, RecordedRequest{
		Method:   method,
		Path:     path,
		User:     user,
		Password: pass,
		Body:     append([]byte(nil), c.Body()...),
	})

	if status, ok := m.failures[method+" "+path]; ok {
		return c.Status(status).JSON(models.ErrorResponse{Error: "forced failure"})
	}

	switch {
	case path == "/api/overview" && method == fiber.MethodGet:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"management_version": "3.12.13",
			"cluster_name":       "rabbit@mock",
		})

	case path == "/api/definitions" && method == fiber.MethodGet:
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).Send(m.definitions)

	case path == "/api/definitions" && method == fiber.MethodPost:
		m.definitions = append([]byte(nil), c.Body()...)
		return c.SendStatus(fiber.StatusNoContent)

	case path == "/api/queues" && method == fiber.MethodGet:
		queues := m.queues
		if queues == nil {
			queues = []models.QueueDTO{}
		}
		return c.Status(fiber.StatusOK).JSON(queues)

	case path == "/api/shovels/%2F" && method == fiber.MethodGet:
		shovels := m.shovels
		if shovels == nil {
			shovels = []models.ShovelDTO{}
		}
		return c.Status(fiber.StatusOK).JSON(shovels)

	case strings.HasPrefix(path, shovelParamPrefix):
		name, err := url.PathUnescape(strings.TrimPrefix(path, shovelParamPrefix))
		if err != nil || name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "bad shovel name"})
		}
		switch method {
		case fiber.MethodPut:
			m.putShovel(name)
			return c.SendStatus(fiber.StatusCreated)
		case fiber.MethodDelete:
			if !m.deleteShovel(name) {
				return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Object Not Found"})
			}
			return c.SendStatus(fiber.StatusNoContent)
		}
	}

	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: "Object Not Found"})
}

func (m *MockManagement) putShovel(name string) {
	for _, s := range m.shovels {
		if s.Name == name {
			return
		}
	}
	m.shovels = append(m.shovels, models.ShovelDTO{
		Name:  name,
		VHost: "/",
		Type:  "dynamic",
		State: "running",
	})
}

func (m *MockManagement) deleteShovel(name string) bool {
	for i, s := range m.shovels {
		if s.Name == name {
			m.shovels = append(m.shovels[:i], m.shovels[i+1:]...)
			return true
		}
	}
	return false
}

func basicAuth(header string) (user, pass string) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", ""
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", ""
	}
	user, pass, _ = strings.Cut(string(decoded), ":")
	return user, pass
}

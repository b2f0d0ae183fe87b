// Package testutil provides testing utilities for the sweeper.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock backend endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockBackend is a configurable mock HTTP backend standing in for the
// content API or the commerce platform.
type MockBackend struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount      int
	DeleteCount       int
	deletePaths       []string
	LastRequestHeader http.Header
}

// NewMockBackend creates a new mock backend server.
func NewMockBackend() *MockBackend {
	mock := &MockBackend{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		if r.Method == http.MethodDelete {
			mock.DeleteCount++
			mock.deletePaths = append(mock.deletePaths, r.URL.Path)
		}
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBackend) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.DeleteCount = 0
	m.deletePaths = nil
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBackend) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockBackend) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		status := resp.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBackend) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetDeleteCount returns the number of DELETE requests made to the server.
func (m *MockBackend) GetDeleteCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DeleteCount
}

// DeletedPaths returns the paths of all DELETE requests in arrival order.
func (m *MockBackend) DeletedPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deletePaths...)
}

// defaultHandler provides a generic JSON 200 response.
func (m *MockBackend) defaultHandler(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

// OrderStub describes one order record served by a mock listing.
type OrderStub struct {
	ID            int
	CartReference string
}

// OrderPageBody builds a content-API listing envelope for one page.
func OrderPageBody(page, pageSize, pageCount, total int, orders ...OrderStub) string {
	data := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		attrs := map[string]any{}
		if o.CartReference != "" {
			attrs["cartReference"] = o.CartReference
		}
		data = append(data, map[string]any{"id": o.ID, "attributes": attrs})
	}

	envelope := map[string]any{
		"data": data,
		"meta": map[string]any{
			"pagination": map[string]int{
				"page":      page,
				"pageSize":  pageSize,
				"pageCount": pageCount,
				"total":     total,
			},
		},
	}

	body, _ := json.Marshal(envelope)
	return string(body)
}

// PagedOrdersHandler serves a full order set as a paginated listing,
// honoring the pagination[page] and pagination[pageSize] query
// parameters the way the content API does.
func PagedOrdersHandler(orders []OrderStub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		page := queryInt(query.Get("pagination[page]"), 1)
		pageSize := queryInt(query.Get("pagination[pageSize]"), 10)

		total := len(orders)
		pageCount := (total + pageSize - 1) / pageSize

		low := (page - 1) * pageSize
		high := low + pageSize
		if low > total {
			low = total
		}
		if high > total {
			high = total
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(OrderPageBody(page, pageSize, pageCount, total, orders[low:high]...)))
	}
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

package strapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New(Config{
		BaseURL:  baseURL,
		Token:    "test-token",
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

// pageBody builds a listing response envelope with the given records.
func pageBody(page, pageSize, pageCount, total int, records string) string {
	return fmt.Sprintf(
		`{"data":[%s],"meta":{"pagination":{"page":%d,"pageSize":%d,"pageCount":%d,"total":%d}}}`,
		records, page, pageSize, pageCount, total)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: Config{
				BaseURL:  "https://cms.example.com/api",
				Token:    "secret",
				PageSize: 10,
			},
			expectError: false,
		},
		{
			name: "empty base url",
			config: Config{
				Token: "secret",
			},
			expectError: true,
			errorMsg:    "base url is required",
		},
		{
			name: "empty token",
			config: Config{
				BaseURL: "https://cms.example.com/api",
			},
			expectError: true,
			errorMsg:    "token is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				if err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if client == nil {
				t.Fatal("Expected client, got nil")
			}
		})
	}
}

func TestNew_DefaultPageSize(t *testing.T) {
	client := newTestClient(t, "https://cms.example.com/api")
	if client.config.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", client.config.PageSize)
	}

	client, err := New(Config{BaseURL: "https://cms.example.com/api", Token: "secret"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.config.PageSize != 10 {
		t.Errorf("default PageSize = %d, want 10", client.config.PageSize)
	}
}

func TestFetchOrderPage_Success(t *testing.T) {
	var gotQuery, gotAuth, gotAccept, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, pageBody(3, 10, 5, 42,
			`{"id":7,"attributes":{"cartReference":"cart_7"}},{"id":8,"attributes":{}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	page, err := client.FetchOrderPage(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchOrderPage() error = %v", err)
	}

	if gotPath != "/orders" {
		t.Errorf("request path = %q, want /orders", gotPath)
	}
	wantQuery := "fields[0]=id&fields[1]=cartReference&pagination[pageSize]=10&pagination[page]=3&publicationState=preview&locale[0]=en"
	if gotQuery != wantQuery {
		t.Errorf("request query = %q, want %q", gotQuery, wantQuery)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}

	if len(page.Data) != 2 {
		t.Fatalf("len(Data) = %d, want 2", len(page.Data))
	}
	if page.Data[0].ID != 7 {
		t.Errorf("Data[0].ID = %d, want 7", page.Data[0].ID)
	}
	if ref, ok := page.Data[0].CartReference(); !ok || ref != "cart_7" {
		t.Errorf("Data[0].CartReference() = (%q, %v), want (cart_7, true)", ref, ok)
	}
	if _, ok := page.Data[1].CartReference(); ok {
		t.Error("Data[1] should have no cart reference")
	}

	wantPagination := Pagination{Page: 3, PageSize: 10, PageCount: 5, Total: 42}
	if page.Meta.Pagination != wantPagination {
		t.Errorf("Pagination = %+v, want %+v", page.Meta.Pagination, wantPagination)
	}
}

func TestFetchOrderPage_HTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantClass  ErrorClass
	}{
		{"unauthorized", http.StatusUnauthorized, ErrorClassClient},
		{"not found", http.StatusNotFound, ErrorClassClient},
		{"server error", http.StatusInternalServerError, ErrorClassServer},
		{"bad gateway", http.StatusBadGateway, ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			_, err := client.FetchOrderPage(context.Background(), 1)
			if err == nil {
				t.Fatal("Expected error for non-200 status")
			}
			if !errors.Is(err, ErrFetchFailed) {
				t.Errorf("error should wrap ErrFetchFailed, got %v", err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error should be *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.statusCode)
			}
			if apiErr.ErrorClass != tt.wantClass {
				t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, tt.wantClass)
			}
		})
	}
}

func TestFetchOrderPage_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": not json`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchOrderPage(context.Background(), 1)
	if err == nil {
		t.Fatal("Expected decode error")
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error should wrap ErrFetchFailed, got %v", err)
	}
}

func TestFetchOrderPage_MissingPagination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":1}]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.FetchOrderPage(context.Background(), 1)
	if err == nil {
		t.Fatal("Expected error for missing pagination metadata")
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error should wrap ErrFetchFailed, got %v", err)
	}
}

func TestFetchOrderPage_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(t, server.URL)

	_, err := client.FetchOrderPage(context.Background(), 1)
	if err == nil {
		t.Fatal("Expected transport error")
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("error should wrap ErrFetchFailed, got %v", err)
	}
}

func TestDeleteOrder(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		want       bool
	}{
		{"deleted", http.StatusOK, true},
		{"already absent", http.StatusNotFound, true},
		{"server error still counts as completed", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath, gotAuth string

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			if got := client.DeleteOrder(context.Background(), 42); got != tt.want {
				t.Errorf("DeleteOrder() = %v, want %v", got, tt.want)
			}
			if gotMethod != http.MethodDelete {
				t.Errorf("method = %q, want DELETE", gotMethod)
			}
			if gotPath != "/order/42" {
				t.Errorf("path = %q, want /order/42", gotPath)
			}
			if gotAuth != "Bearer test-token" {
				t.Errorf("Authorization = %q, want bearer token", gotAuth)
			}
		})
	}
}

func TestDeleteOrder_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)

	if client.DeleteOrder(context.Background(), 42) {
		t.Error("DeleteOrder() = true for transport failure, want false")
	}
}

package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bakeshop-mx/storefront-client/pkg/config"
	pkgerrors "github.com/bakeshop-mx/storefront-client/pkg/errors"
	"github.com/go-chi/chi/v5"
)

type stubAuthorizer struct {
	token string

	handled       []error
	guestTolerant []bool
}

func (s *stubAuthorizer) Token(ctx context.Context) string {
	return s.token
}

func (s *stubAuthorizer) HandleResponseError(ctx context.Context, err error, guestTolerant bool) error {
	s.handled = append(s.handled, err)
	s.guestTolerant = append(s.guestTolerant, guestTolerant)
	return err
}

func newTestClient(t *testing.T, handler http.Handler, auth Authorizer) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientParams{Config: config.APIConfig{BaseURL: server.URL}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.SetAuthorizer(auth)
	return client
}

func TestClientAttachesBearerAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID string
	router := chi.NewRouter()
	router.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"id":1,"items":[],"total":0}`))
	})

	client := newTestClient(t, router, &stubAuthorizer{token: "tok-1"})
	resp, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "cart"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Status)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatal("expected X-Request-ID header")
	}
}

func TestClientSkipsBearerOnAuthEndpoints(t *testing.T) {
	t.Parallel()

	var gotAuth string
	router := chi.NewRouter()
	router.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"access_token":"t","token_type":"bearer"}`))
	})

	client := newTestClient(t, router, &stubAuthorizer{token: "stale"})
	if _, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "auth/login", Body: map[string]string{"email": "a@b.c"}}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("login must not carry authorization, got %q", gotAuth)
	}
}

func TestClientClassifiesErrorAndExtractsDetail(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Post("/cart/items", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"stock insuficiente"}`))
	})

	auth := &stubAuthorizer{token: "tok"}
	client := newTestClient(t, router, auth)
	_, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "cart/items", Body: map[string]int{"cantidad": 3}})
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if typed.Message() != "stock insuficiente" {
		t.Fatalf("expected server detail, got %q", typed.Message())
	}
	if len(auth.handled) != 1 {
		t.Fatalf("authorizer should have seen the error once, saw %d", len(auth.handled))
	}
	if auth.guestTolerant[0] {
		t.Fatal("request was not guest tolerant")
	}
}

func TestClientPropagatesGuestTolerantFlag(t *testing.T) {
	t.Parallel()

	router := chi.NewRouter()
	router.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	auth := &stubAuthorizer{}
	client := newTestClient(t, router, auth)
	_, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "users/me", GuestTolerant: true})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(auth.guestTolerant) != 1 || !auth.guestTolerant[0] {
		t.Fatalf("guest tolerant flag not propagated: %v", auth.guestTolerant)
	}
}

func TestClientUnreachableServer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := NewClient(ClientParams{Config: config.APIConfig{BaseURL: server.URL}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Do(context.Background(), Request{Method: http.MethodGet, Path: "products"})
	if !pkgerrors.HasCode(err, pkgerrors.CodeUnreachable) {
		t.Fatalf("expected unreachable, got %v", err)
	}
}

func TestClientEncodesQuery(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	router := chi.NewRouter()
	router.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	client := newTestClient(t, router, nil)
	query := url.Values{}
	query.Set("search", "concha")
	query.Set("limit", "10")
	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "products", Query: query}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotQuery.Get("search") != "concha" || gotQuery.Get("limit") != "10" {
		t.Fatalf("unexpected query %v", gotQuery)
	}
}

func TestNewClientRejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientParams{Config: config.APIConfig{BaseURL: "api.bakeshop.test"}}); err == nil {
		t.Fatal("expected error for non-absolute base url")
	}
}

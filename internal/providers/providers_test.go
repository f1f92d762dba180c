package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBinClientLookup(t *testing.T) {
	t.Parallel()

	t.Run("decodes a found record", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/457173" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{"type":"debit","bank":{"name":"Example Bank"},"country":{"name":"Denmark"}}`))
		}))
		defer server.Close()

		client := NewBinClient(server.URL, server.Client(), nil)
		info, err := client.Lookup(context.Background(), "457173")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		want := BinInfo{Type: "debit", Bank: "Example Bank", Country: "Denmark"}
		if info != want {
			t.Fatalf("unexpected info: %+v", info)
		}
	})

	t.Run("404 maps to ErrNotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewBinClient(server.URL, server.Client(), nil)
		if _, err := client.Lookup(context.Background(), "000000"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("5xx maps to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewBinClient(server.URL, server.Client(), nil)
		if _, err := client.Lookup(context.Background(), "457173"); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("transport failure maps to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewBinClient(server.URL, nil, nil)
		if _, err := client.Lookup(context.Background(), "457173"); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestIdentityClientRandom(t *testing.T) {
	t.Parallel()

	t.Run("decodes the first result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("gender") != "female" || r.URL.Query().Get("nat") != "us" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"results":[{"name":{"first":"Jane","last":"Doe"},"email":"jane@example.test",` +
				`"phone":"555-0100","location":{"street":{"name":"Main St"},"city":"Springfield"}}]}`))
		}))
		defer server.Close()

		client := NewIdentityClient(server.URL, server.Client(), nil)
		identity, err := client.Random(context.Background(), "female", "us")
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		want := Identity{FirstName: "Jane", LastName: "Doe", Email: "jane@example.test",
			Phone: "555-0100", Street: "Main St", City: "Springfield"}
		if identity != want {
			t.Fatalf("unexpected identity: %+v", identity)
		}
	})

	t.Run("empty results map to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		}))
		defer server.Close()

		client := NewIdentityClient(server.URL, server.Client(), nil)
		if _, err := client.Random(context.Background(), "male", "gb"); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("non-200 maps to ErrUnavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewIdentityClient(server.URL, server.Client(), nil)
		if _, err := client.Random(context.Background(), "male", "gb"); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})
}

func TestMailClient(t *testing.T) {
	t.Parallel()

	t.Run("provision returns the address", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/generate" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{"email":"box123@tempmail.test"}`))
		}))
		defer server.Close()

		client := NewMailClient(server.URL, server.Client(), nil)
		address, err := client.Provision(context.Background())
		if err != nil {
			t.Fatalf("provision: %v", err)
		}
		if address != "box123@tempmail.test" {
			t.Fatalf("unexpected address: %s", address)
		}
	})

	t.Run("provision without an address is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewMailClient(server.URL, server.Client(), nil)
		if _, err := client.Provision(context.Background()); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("messages decode", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/messages" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.URL.Query().Get("email") != "box123@tempmail.test" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`[{"from":"a@example.test","subject":"hi","body":"hello"}]`))
		}))
		defer server.Close()

		client := NewMailClient(server.URL, server.Client(), nil)
		messages, err := client.Messages(context.Background(), "box123@tempmail.test")
		if err != nil {
			t.Fatalf("messages: %v", err)
		}
		if len(messages) != 1 || messages[0].Subject != "hi" {
			t.Fatalf("unexpected messages: %+v", messages)
		}
	})

	t.Run("messages failure is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewMailClient(server.URL, server.Client(), nil)
		if _, err := client.Messages(context.Background(), "x"); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable, got %v", err)
		}
	})
}

package pocruises_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cruisewatch/internal/adapters/pocruises"
	"cruisewatch/internal/domain"
)

func TestClient_CruisePrices_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/price/cruise/A542B" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("brand") != "po" || r.Header.Get("currencyCode") != "GBP" {
			t.Errorf("brand headers missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"sailingDate":"2027-06-15","duration":7}}`))
	}))
	defer ts.Close()

	cl := pocruises.New(ts.URL, 2*time.Second, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	doc, err := cl.CruisePrices(ctx, "A542B")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	data, ok := doc["data"].(map[string]any)
	if !ok || data["sailingDate"] != "2027-06-15" {
		t.Fatalf("unexpected payload: %+v", doc)
	}
}

func TestClient_CruisePrices_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl := pocruises.New(ts.URL, time.Second, 100)
	_, err := cl.CruisePrices(context.Background(), "GONE")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_CruisePrices_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	}))
	defer ts.Close()

	cl := pocruises.New(ts.URL, time.Second, 100)
	_, err := cl.CruisePrices(context.Background(), "A542B")
	if !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestClient_CruisePrices_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer ts.Close()

	cl := pocruises.New(ts.URL, time.Second, 100)
	_, err := cl.CruisePrices(context.Background(), "A542B")
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

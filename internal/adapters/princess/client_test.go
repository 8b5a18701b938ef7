package princess_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cruisewatch/internal/adapters/princess"
	"cruisewatch/internal/domain"
)

func TestClient_Products(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/resdb/p1.0/products" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("pcl-client-id") != "test-id" {
			t.Errorf("client id header missing")
		}
		_, _ = w.Write([]byte(`{"products":[{"id":"P100","name":"Med"},{"id":"P200","name":"Baltic"}]}`))
	}))
	defer ts.Close()

	cl := princess.New(ts.URL, "test-id", time.Second, 100)
	out, err := cl.Products(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 || out[0]["name"] != "Med" {
		t.Fatalf("unexpected products: %+v", out)
	}
}

func TestClient_CruiseFares_PostsBookingEnquiry(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/caps/pc/pricing/v1/cruises/3421" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("body decode: %v", err)
		}
		filters, _ := body["filters"].(map[string]any)
		cruises, _ := filters["cruises"].([]any)
		if len(cruises) != 1 || cruises[0] != "3421" {
			t.Errorf("filters.cruises = %v", cruises)
		}
		booking, _ := body["booking"].(map[string]any)
		if booking["currencyCode"] != "GBP" {
			t.Errorf("currency = %v", booking["currencyCode"])
		}
		_, _ = w.Write([]byte(`{"products":[]}`))
	}))
	defer ts.Close()

	cl := princess.New(ts.URL, "test-id", time.Second, 100)
	doc, err := cl.CruiseFares(context.Background(), "3421")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, ok := doc["products"]; !ok {
		t.Fatalf("unexpected payload: %+v", doc)
	}
}

func TestClient_Products_MissingKey(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"unavailable"}`))
	}))
	defer ts.Close()

	cl := princess.New(ts.URL, "test-id", time.Second, 100)
	_, err := cl.Products(context.Background())
	if !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestClient_CruiseFares_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl := princess.New(ts.URL, "test-id", time.Second, 100)
	_, err := cl.CruiseFares(context.Background(), "3421")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package fxrate_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gamelxrd/internal/services"
	"gamelxrd/internal/services/fxrate"
)

func TestRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/key/pair/KZT/RUB" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":"success","base_code":"KZT","target_code":"RUB","conversion_rate":0.1785}`))
	}))
	defer server.Close()

	client, err := fxrate.New("key", server.URL)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	rate, err := client.Rate(context.Background(), "kzt", "rub")
	if err != nil || rate != 0.1785 {
		t.Fatalf("Rate() = %v, %v", rate, err)
	}
}

func TestRateFailureResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"error","error-type":"invalid-key"}`))
	}))
	defer server.Close()

	client, _ := fxrate.New("key", server.URL)
	if _, err := client.Rate(context.Background(), "KZT", "RUB"); !errors.Is(err, services.ErrExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
	if _, err := client.Rate(context.Background(), "KZ", "RUB"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

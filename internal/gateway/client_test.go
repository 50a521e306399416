package gateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"marketplace-fulfillment/internal/gateway"
)

func TestClient_Initialize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("authorization = %q, want bearer secret", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"data":{"authorization_url":"https://pay.example/checkout/abc"}}`))
	}))
	defer server.Close()

	client := gateway.NewClientWith(server.URL, "sk_test", 2*time.Second)
	url, err := client.Initialize(context.Background(), decimal.NewFromInt(2800), "ref-123", map[string]string{"order_number": "ORD-000001"})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if url != "https://pay.example/checkout/abc" {
		t.Errorf("redirect url = %q", url)
	}
}

func TestClient_InitializeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"duplicate reference"}`))
	}))
	defer server.Close()

	client := gateway.NewClientWith(server.URL, "sk_test", 2*time.Second)
	if _, err := client.Initialize(context.Background(), decimal.NewFromInt(1), "ref-dup", nil); err == nil {
		t.Fatal("expected error for rejected initialize, got nil")
	}
}

func TestClient_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/ref-123" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"data":{"status":"success","reference":"ref-123","amount":"2800.00"}}`))
	}))
	defer server.Close()

	client := gateway.NewClientWith(server.URL, "sk_test", 2*time.Second)
	result, err := client.Verify(context.Background(), "ref-123")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Success || result.Reference != "ref-123" {
		t.Errorf("result = %+v, want success for ref-123", result)
	}
	if !result.Amount.Equal(decimal.RequireFromString("2800.00")) {
		t.Errorf("amount = %s, want 2800.00", result.Amount)
	}
	if len(result.Raw) == 0 {
		t.Error("raw provider response not preserved")
	}
}

func TestClient_VerifyFailedPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"data":{"status":"failed","reference":"ref-456","amount":"100.00"}}`))
	}))
	defer server.Close()

	client := gateway.NewClientWith(server.URL, "sk_test", 2*time.Second)
	result, err := client.Verify(context.Background(), "ref-456")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Success {
		t.Error("failed payment reported as success")
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := gateway.NewClientWith(server.URL, "sk_test", 50*time.Millisecond)
	if _, err := client.Verify(context.Background(), "ref-slow"); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-logr/logr"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(logr.Discard(), "test-token", srv.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New(logr.Discard(), "", "")
	if err == nil {
		t.Fatal("expected error for missing token, got nil")
	}
}

func TestListZones(t *testing.T) {
	var gotAuth, gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		if r.Method != http.MethodGet || r.URL.Path != "/zones" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"success":true,"errors":[],"result":[{"id":"z1","name":"example.com","status":"active"}]}`))
	}))

	zones, err := c.ListZones(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(zones) != 1 || zones[0].ID != "z1" || zones[0].Name != "example.com" {
		t.Errorf("unexpected zones: %+v", zones)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotQuery != "name=example.com&status=active" {
		t.Errorf("unexpected query: %q", gotQuery)
	}
}

func TestListRecords_Empty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"errors":[],"result":[]}`))
	}))

	records, err := c.ListRecords(context.Background(), "z1", "A", "home.example.com")
	if err != nil {
		t.Fatalf("empty result must not be an error, got: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %+v", records)
	}
}

func TestListRecords_NullResult(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"errors":[],"result":null}`))
	}))

	records, err := c.ListRecords(context.Background(), "z1", "A", "home.example.com")
	if err != nil {
		t.Fatalf("null result must not be an error, got: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %+v", records)
	}
}

func TestCreateRecord(t *testing.T) {
	var gotParams RecordParams
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/zones/z1/dns_records" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotParams); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"success":true,"errors":[],"result":{"id":"r1","type":"A","name":"home.example.com","content":"10.0.0.5","ttl":60,"proxied":false}}`))
	}))

	record, err := c.CreateRecord(context.Background(), "z1", RecordParams{
		Type:    "A",
		Name:    "home.example.com",
		Content: "10.0.0.5",
		TTL:     60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != "r1" {
		t.Errorf("expected record ID 'r1', got %q", record.ID)
	}
	if gotParams.Type != "A" || gotParams.Content != "10.0.0.5" || gotParams.TTL != 60 {
		t.Errorf("unexpected request payload: %+v", gotParams)
	}
}

func TestUpdateRecord(t *testing.T) {
	var gotParams RecordParams
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/zones/z1/dns_records/r1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotParams); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Write([]byte(`{"success":true,"errors":[],"result":{"id":"r1","type":"A","name":"home.example.com","content":"10.0.0.9","ttl":60,"proxied":true}}`))
	}))

	record, err := c.UpdateRecord(context.Background(), "z1", "r1", RecordParams{
		Type:    "A",
		Name:    "home.example.com",
		Content: "10.0.0.9",
		TTL:     60,
		Proxied: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Content != "10.0.0.9" || !record.Proxied {
		t.Errorf("unexpected record: %+v", record)
	}
	if !gotParams.Proxied {
		t.Error("expected proxied=true in request payload")
	}
}

func TestDoRequest_ProviderRejection(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"errors":[{"code":10000,"message":"rate limited"},{"code":10001,"message":"try later"}],"result":null}`))
	}))

	_, err := c.ListZones(context.Background(), "example.com")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	want := "cloudflare: rate limited; try later"
	if apiErr.Error() != want {
		t.Errorf("expected %q, got %q", want, apiErr.Error())
	}
}

func TestDoRequest_MalformedResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))

	_, err := c.ListZones(context.Background(), "example.com")
	if err == nil {
		t.Fatal("expected error for malformed response, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("malformed response must not be an APIError, got %v", err)
	}
}

func TestDoRequest_TransportError(t *testing.T) {
	c, err := New(logr.Discard(), "test-token", "http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = c.ListZones(context.Background(), "example.com")
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an APIError, got %v", err)
	}
}

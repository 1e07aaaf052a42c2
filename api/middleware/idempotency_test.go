package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "alano:idempotency:" + scope + ":" + id
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func countingHandler(calls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"receipt":"R-1"}}`))
	})
}

func postPayment(handler http.Handler, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	var calls atomic.Int32
	handler := Idempotency(newFakeStore(), nil)(countingHandler(&calls))

	first := postPayment(handler, "key-1", `{"amount":"30.00"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}

	second := postPayment(handler, "key-1", `{"amount":"30.00"}`)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay should return the stored status, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", second.Body.String(), first.Body.String())
	}
	if calls.Load() != 1 {
		t.Fatalf("handler should run once, ran %d times", calls.Load())
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	var calls atomic.Int32
	handler := Idempotency(newFakeStore(), nil)(countingHandler(&calls))

	postPayment(handler, "key-1", `{"amount":"30.00"}`)
	conflicting := postPayment(handler, "key-1", `{"amount":"999.00"}`)

	if conflicting.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", conflicting.Code)
	}
	if calls.Load() != 1 {
		t.Fatalf("handler should run once, ran %d times", calls.Load())
	}
}

func TestIdempotencyRequiresKeyOnGuardedRoute(t *testing.T) {
	var calls atomic.Int32
	handler := Idempotency(newFakeStore(), nil)(countingHandler(&calls))

	rec := postPayment(handler, "", `{"amount":"30.00"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if calls.Load() != 0 {
		t.Fatalf("handler should not run, ran %d times", calls.Load())
	}
}

func TestIdempotencyIgnoresUnguardedRoutes(t *testing.T) {
	var calls atomic.Int32
	handler := Idempotency(newFakeStore(), nil)(countingHandler(&calls))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if calls.Load() != 1 {
		t.Fatalf("unguarded route should pass through, ran %d times", calls.Load())
	}
}

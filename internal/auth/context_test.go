package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestActorIDRoundTrip(t *testing.T) {
	ctx := ContextWithActorID(context.Background(), 7)
	id, ok := ActorIDFromContext(ctx)
	if !ok || id != 7 {
		t.Fatalf("expected actor 7, got %d (ok=%v)", id, ok)
	}
}

func TestActorIDMissing(t *testing.T) {
	if _, ok := ActorIDFromContext(context.Background()); ok {
		t.Fatal("empty context should carry no actor")
	}
}

func TestMiddlewareParsesHeader(t *testing.T) {
	var got int64
	var ok bool
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = ActorIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ActorHeader, "42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok || got != 42 {
		t.Fatalf("expected actor 42 from header, got %d (ok=%v)", got, ok)
	}
}

func TestMiddlewareIgnoresBadHeader(t *testing.T) {
	var ok bool
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = ActorIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ActorHeader, "not-a-number")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if ok {
		t.Fatal("unparseable header should leave the context empty")
	}
}

package auth

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

type contextKey string

const actorIDKey contextKey = "actorID"

// ActorHeader carries the acting user's identifier on incoming requests.
const ActorHeader = "X-Actor-ID"

// ContextWithActorID returns a new context that carries the acting user.
func ContextWithActorID(ctx context.Context, id int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorIDKey, id)
}

// ActorIDFromContext retrieves the acting user from the context, if any.
func ActorIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	value := ctx.Value(actorIDKey)
	if value == nil {
		return 0, false
	}
	id, ok := value.(int64)
	if !ok {
		return 0, false
	}
	return id, true
}

// Middleware copies the actor header onto the request context so downstream
// components can attribute changes without threading HTTP concerns through.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(ActorHeader))
		if raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				r = r.WithContext(ContextWithActorID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

package server

import (
	"context"
	"net/http"
)

type contextKey int

const (
	userIDKey contextKey = iota
	userInfoKey
)

// UserInfo is the identity attached to a request by the identity middleware.
type UserInfo struct {
	Login       string
	DisplayName string
}

// WhoIsFunc resolves a remote address to a Tailscale identity.
type WhoIsFunc func(ctx context.Context, remoteAddr string) (login, displayName string, err error)

// userStore is the slice of storage the identity middleware needs.
type userStore interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

// TailscaleIdentity resolves the caller through tsnet's WhoIs and maps the
// login to a user row. Requests that cannot be identified are rejected; tsnet
// already gates network access, so this should only fire on tagged nodes.
func TailscaleIdentity(whois WhoIsFunc, users userStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			login, displayName, err := whois(r.Context(), r.RemoteAddr)
			if err != nil || login == "" {
				http.Error(w, `{"error":"could not identify caller"}`, http.StatusForbidden)
				return
			}
			id, err := users.GetOrCreateUser(r.Context(), login, displayName)
			if err != nil {
				http.Error(w, `{"error":"identity lookup failed"}`, http.StatusInternalServerError)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, id)
			ctx = context.WithValue(ctx, userInfoKey, UserInfo{Login: login, DisplayName: displayName})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DevIdentity assigns user_id=1 to every request, for local development
// without Tailscale.
func DevIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), userIDKey, 1)
		ctx = context.WithValue(ctx, userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the request's user ID, defaulting to 1 when no
// identity middleware ran.
func userIDFromContext(r *http.Request) int {
	if id, ok := r.Context().Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// userInfoFromContext returns the request's identity, defaulting to the local
// dev identity.
func userInfoFromContext(r *http.Request) UserInfo {
	if info, ok := r.Context().Value(userInfoKey).(UserInfo); ok {
		return info
	}
	return UserInfo{Login: "local", DisplayName: "Local Dev User"}
}

// mustUserID extracts the user ID or writes a 401. The default identity makes
// this infallible today; the check guards future strict modes.
func mustUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id := userIDFromContext(r)
	if id <= 0 {
		http.Error(w, `{"error":"unauthenticated"}`, http.StatusUnauthorized)
		return 0, false
	}
	return id, true
}

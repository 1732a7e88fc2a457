package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/denimhub/denimhub-backend/internal/activitylog"
	"github.com/denimhub/denimhub-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID   contextKey = "user_id"
	ctxRole     contextKey = "actor_role"
	ctxClientIP contextKey = "client_ip"
)

func UserIDFromContext(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(uint64); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return ""
}

// WithActor injects the authenticated user into the context.
func WithActor(ctx context.Context, userID uint64, role enums.UserRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}

// ActorFromRequest describes who is calling, for activity logging.
func ActorFromRequest(r *http.Request) activitylog.Actor {
	ip, ok := r.Context().Value(ctxClientIP).(string)
	if !ok {
		ip = peerIP(r)
	}
	return activitylog.Actor{
		UserID:    UserIDFromContext(r.Context()),
		Role:      RoleFromContext(r.Context()),
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// ClientIP resolves the caller address once per request. Forwarding headers are
// read only when the direct peer is in trusted; the X-Forwarded-For chain is
// then walked from the right past every trusted hop.
func ClientIP(trusted []*net.IPNet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ctxClientIP, clientIP(r, trusted))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clientIP(r *http.Request, trusted []*net.IPNet) string {
	peer := peerIP(r)
	if !isTrusted(peer, trusted) {
		return peer
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		hops := strings.Split(header, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if net.ParseIP(hop) == nil {
				break
			}
			if !isTrusted(hop, trusted) {
				return hop
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
		return ip
	}
	return peer
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func isTrusted(addr string, trusted []*net.IPNet) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

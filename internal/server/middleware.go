package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyProfile contextKey = "profile"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireStaff verifies the Supabase access token and only lets through
// profiles holding one of roles.
func (s *Service) RequireStaff(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw, ok := s.accessToken(r)
			if !ok {
				s.writeError(w, r, types.AuthError(msgUnauthorized))
				return
			}

			claims, err := s.verifier.Verify(ctx, raw)
			if err != nil {
				s.logger.WithError(err).Debug("rejected staff access token")
				s.writeError(w, r, types.AuthError(msgUnauthorized))
				return
			}

			profile, err := s.profiles.Profile(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, types.ErrProfileNotFound) {
					s.writeError(w, r, types.ForbiddenError(msgForbidden))
					return
				}
				s.writeError(w, r, types.DependencyError("Failed to fetch profile", err))
				return
			}

			if !profile.HasRole(roles...) {
				s.logger.WithFields(logrus.Fields{
					"user_id": profile.ID,
					"role":    profile.Role,
				}).Info("staff route denied for role")
				s.writeError(w, r, types.ForbiddenError(msgForbidden))
				return
			}

			ctx = context.WithValue(ctx, contextKeyProfile, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// accessToken reads the bearer token, falling back to the encrypted session
// cookie set by the dashboard.
func (s *Service) accessToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}

	cookie, err := r.Cookie(cookieAccessTokenName)
	if err != nil {
		return "", false
	}

	var accessToken string
	if err := s.cookie.Decode(cookieAccessTokenName, cookie.Value, &accessToken); err != nil {
		s.logger.WithError(err).Debug("failed to decrypt access token cookie")
		return "", false
	}

	return accessToken, accessToken != ""
}

func (s *Service) profileFromContext(ctx context.Context) (*types.Profile, bool) {
	profile, ok := ctx.Value(contextKeyProfile).(*types.Profile)
	return profile, ok
}

// LimitPINAttempts throttles PIN submissions per client address when a
// limiter is configured. Limiter outages fail open.
func (s *Service) LimitPINAttempts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := "pin:" + clientIP(r, s.config.TrustedProxyHops)
		allowed, retryAfter, err := s.limiter.Allow(r.Context(), key)
		if err != nil {
			s.logger.WithError(err).WithField("key", key).Warn("pin rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			s.writeError(w, r, &types.Error{Kind: types.KindRateLimited, Message: msgTooManyAttempts})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP keys attempts on the peer address. X-Forwarded-For is only read
// when the server sits behind trustedHops proxies, and then the entry the
// outermost trusted proxy appended is used; anything left of it is client supplied.
func clientIP(r *http.Request, trustedHops int) string {
	if trustedHops > 0 {
		if forwarded := r.Header.Values("X-Forwarded-For"); len(forwarded) > 0 {
			hops := strings.Split(strings.Join(forwarded, ","), ",")
			if len(hops) >= trustedHops {
				if ip := strings.TrimSpace(hops[len(hops)-trustedHops]); ip != "" {
					return ip
				}
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			// 308 keeps the method and body for POSTs
			http.Redirect(w, r, newURL.String(), http.StatusPermanentRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

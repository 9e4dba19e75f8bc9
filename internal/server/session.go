package server

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-siggen/internal/session"
	"github.com/goliatone/go-siggen/pkg/model"
)

type sessionKey struct{}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// sessionMiddleware resolves the caller's session from the cookie, starting a
// fresh one with the default record when the cookie is missing, malformed or
// points at an expired session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := ""
		if cookie, err := r.Cookie(s.opts.CookieName); err == nil && session.ValidID(cookie.Value) {
			id = cookie.Value
		}

		if id != "" {
			_, err := s.opts.Store.Load(ctx, id)
			switch {
			case err == nil:
			case errors.Is(err, session.ErrNotFound):
				id = ""
			default:
				s.logger.Error("load session", zap.Error(err))
				writeError(w, http.StatusInternalServerError, errors.New("session unavailable"))
				return
			}
		}

		if id == "" {
			if sweeper, ok := s.opts.Store.(interface{ Sweep() int }); ok {
				if n := sweeper.Sweep(); n > 0 {
					s.logger.Debug("expired sessions removed", zap.Int("count", n))
				}
			}
			id = session.NewID()
			if err := s.opts.Store.Save(ctx, id, session.NewRecord(model.Default())); err != nil {
				s.logger.Error("create session", zap.Error(err))
				writeError(w, http.StatusInternalServerError, errors.New("session unavailable"))
				return
			}
			s.logger.Debug("session created", zap.String("session", id))
		}

		s.setCookie(w, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey{}, id)))
	})
}

func (s *Server) setCookie(w http.ResponseWriter, id string) {
	cookie := &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if s.opts.CookieMaxAge > 0 {
		cookie.MaxAge = int(s.opts.CookieMaxAge.Seconds())
	}
	http.SetCookie(w, cookie)
}

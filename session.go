package dune

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionCookie is the name of the signed session cookie.
const SessionCookie = "dune_session"

// loadSession verifies and decodes the session cookie. A missing,
// tampered, or otherwise invalid cookie yields an empty session rather
// than an error; sessions are best-effort state, not authentication.
func (a *API) loadSession(r *http.Request) map[string]any {
	session := make(map[string]any)
	if a.cfg.SecretKey == "" {
		return session
	}

	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return session
	}

	token, err := jwt.Parse(c.Value, func(*jwt.Token) (any, error) {
		return []byte(a.cfg.SecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return session
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session
	}
	if data, ok := claims["data"].(map[string]any); ok {
		return data
	}
	return session
}

// writeSession re-signs and sets the session cookie when the session
// holds any values.
func (a *API) writeSession(w http.ResponseWriter, session map[string]any) {
	if a.cfg.SecretKey == "" || len(session) == 0 {
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"data": session})
	signed, err := token.SignedString([]byte(a.cfg.SecretKey))
	if err != nil {
		a.log.Error("session signing failed", zap.Error(err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
	})
}

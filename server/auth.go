package server

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor for the password hash computed at
// startup. Cost 12 keeps verification around a quarter second, slow
// enough to blunt online guessing.
const bcryptCost = 12

// BasicAuth protects the API surface with HTTP basic authentication
// against a single operator password. The plaintext password is hashed
// once at construction and discarded.
type BasicAuth struct {
	hash   []byte
	logger *zap.Logger
}

// NewBasicAuth creates a BasicAuth from the configured password. An
// empty password disables authentication, which NewBasicAuth signals by
// returning a disabled instance rather than an error so callers can wire
// it unconditionally.
func NewBasicAuth(password string, logger *zap.Logger) (*BasicAuth, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if password == "" {
		return &BasicAuth{logger: logger}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &BasicAuth{hash: hash, logger: logger}, nil
}

// Enabled reports whether requests will actually be challenged.
func (a *BasicAuth) Enabled() bool {
	return a != nil && len(a.hash) > 0
}

// Middleware wraps next with a basic-auth check. Disabled instances pass
// every request through.
func (a *BasicAuth) Middleware(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Username is ignored; the deployment has a single shared
		// operator credential.
		_, pass, ok := r.BasicAuth()
		if !ok || !a.verify(pass) {
			a.logger.Warn("rejected unauthenticated request",
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr))
			w.Header().Set("WWW-Authenticate", `Basic realm="ricedoctor"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *BasicAuth) verify(password string) bool {
	return bcrypt.CompareHashAndPassword(a.hash, []byte(password)) == nil
}

// Package middle contains middleware for use with the LLPred server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/llpred/server/result"
	"github.com/dekarrin/llpred/server/token"
)

// Middleware wraps a handler with some additional behavior.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in a request context set by RequireAuth and OptionalAuth.
type AuthKey int64

const (
	// AuthLoggedIn holds a bool for whether the request carried a valid token.
	AuthLoggedIn AuthKey = iota

	// AuthUser holds the dao.User the token was issued to, or the default user
	// if there was no valid token.
	AuthUser
)

// RequestUser gives the user that auth middleware put in the context of req.
// It is the zero User if no auth middleware ran.
func RequestUser(req *http.Request) dao.User {
	user, _ := req.Context().Value(AuthUser).(dao.User)
	return user
}

// LoggedIn gives whether req carried a valid token.
func LoggedIn(req *http.Request) bool {
	loggedIn, _ := req.Context().Value(AuthLoggedIn).(bool)
	return loggedIn
}

// RequireAuth returns middleware that responds with an HTTP-401, after
// waiting unauthDelay, to any request that does not carry a valid token.
func RequireAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return authMiddleware(db, secret, unauthDelay, defaultUser, true)
}

// OptionalAuth returns middleware that lets every request through. Requests
// without a valid token are given defaultUser.
func OptionalAuth(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User) Middleware {
	return authMiddleware(db, secret, unauthDelay, defaultUser, false)
}

func authMiddleware(db dao.UserRepository, secret []byte, unauthDelay time.Duration, defaultUser dao.User, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user, err := authenticate(req, db, secret)
			if err != nil && required {
				time.Sleep(unauthDelay)
				result.Unauthorized("", err.Error()).WriteResponse(w, req)
				return
			}

			loggedIn := err == nil
			if !loggedIn {
				user = defaultUser
			}

			ctx := context.WithValue(req.Context(), AuthLoggedIn, loggedIn)
			ctx = context.WithValue(ctx, AuthUser, user)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// authenticate gives the user whose token req carries.
func authenticate(req *http.Request, db dao.UserRepository, secret []byte) (dao.User, error) {
	tok, err := token.Get(req)
	if err != nil {
		return dao.User{}, err
	}
	return token.Validate(req.Context(), tok, secret, db)
}

package middle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/llpred/server/dao/inmem"
	"github.com/dekarrin/llpred/server/token"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func Test_AuthMiddleware(t *testing.T) {
	ctx := context.Background()
	users := inmem.NewUsersRepository()
	ann, err := users.Create(ctx, dao.User{Username: "ann", Password: "hash"})
	if err != nil {
		t.Fatalf("could not create user: %v", err)
	}
	annTok, err := token.Generate(testSecret, ann)
	if err != nil {
		t.Fatalf("could not generate token: %v", err)
	}
	guest := dao.User{Username: "guest"}

	testCases := []struct {
		name           string
		required       bool
		authHeader     string
		expectStatus   int
		expectCalled   bool
		expectLoggedIn bool
		expectUser     string
	}{
		{name: "required, valid token", required: true, authHeader: "Bearer " + annTok, expectStatus: http.StatusOK, expectCalled: true, expectLoggedIn: true, expectUser: "ann"},
		{name: "required, no token", required: true, expectStatus: http.StatusUnauthorized},
		{name: "required, bad token", required: true, authHeader: "Bearer nonsense", expectStatus: http.StatusUnauthorized},
		{name: "optional, valid token", authHeader: "Bearer " + annTok, expectStatus: http.StatusOK, expectCalled: true, expectLoggedIn: true, expectUser: "ann"},
		{name: "optional, no token", expectStatus: http.StatusOK, expectCalled: true, expectUser: "guest"},
		{name: "optional, bad token", authHeader: "Bearer nonsense", expectStatus: http.StatusOK, expectCalled: true, expectUser: "guest"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			var called, loggedIn bool
			var user dao.User
			next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				called = true
				loggedIn = LoggedIn(req)
				user = RequestUser(req)
				w.WriteHeader(http.StatusOK)
			})

			mw := OptionalAuth(users, testSecret, 0, guest)
			if tc.required {
				mw = RequireAuth(users, testSecret, 0, guest)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/info", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()

			mw(next).ServeHTTP(w, req)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectCalled, called)
			assert.Equal(tc.expectLoggedIn, loggedIn)
			assert.Equal(tc.expectUser, user.Username)
			if tc.expectStatus == http.StatusUnauthorized {
				assert.NotEmpty(w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func Test_RequestUser_noMiddleware(t *testing.T) {
	assert := assert.New(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(dao.User{}, RequestUser(req))
	assert.False(LoggedIn(req))
}

package llps

import (
	"context"
	"testing"

	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/llpred/server/dao/inmem"
	"github.com/dekarrin/llpred/server/serr"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() Service {
	return Service{DB: inmem.NewDatastore(), HashCost: bcrypt.MinCost}
}

func Test_Service_Login(t *testing.T) {
	testCases := []struct {
		name      string
		username  string
		password  string
		expectErr error
	}{
		{name: "valid", username: "ann", password: "hunter2"},
		{name: "wrong password", username: "ann", password: "hunter3", expectErr: serr.ErrBadCredentials},
		{name: "no such user", username: "bob", password: "hunter2", expectErr: serr.ErrBadCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			svc := newTestService()

			_, err := svc.CreateUser(ctx, "ann", "hunter2", "", dao.Normal)
			if !assert.NoError(err) {
				return
			}

			user, err := svc.Login(ctx, tc.username, tc.password)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal("ann", user.Username)
			assert.False(user.LastLoginTime.IsZero())
		})
	}
}

func Test_Service_Logout_advancesLogoutTime(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	user, err := svc.CreateUser(ctx, "ann", "hunter2", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}

	loggedOut, err := svc.Logout(ctx, user.ID)
	if !assert.NoError(err) {
		return
	}
	assert.Greater(loggedOut.LastLogoutTime.Unix(), user.LastLogoutTime.Unix())
}

func Test_Service_CreateUser(t *testing.T) {
	testCases := []struct {
		name      string
		username  string
		password  string
		email     string
		expectErr error
	}{
		{name: "valid", username: "bob", password: "pw", email: "bob@example.com"},
		{name: "blank username", username: "", password: "pw", expectErr: serr.ErrBadArgument},
		{name: "blank password", username: "bob", password: "", expectErr: serr.ErrBadArgument},
		{name: "bad email", username: "bob", password: "pw", email: "not an email", expectErr: serr.ErrBadArgument},
		{name: "duplicate", username: "ann", password: "pw", expectErr: serr.ErrAlreadyExists},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			svc := newTestService()

			_, err := svc.CreateUser(ctx, "ann", "hunter2", "", dao.Normal)
			if !assert.NoError(err) {
				return
			}

			_, err = svc.CreateUser(ctx, tc.username, tc.password, tc.email, dao.Normal)
			if tc.expectErr != nil {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
		})
	}
}

func Test_Service_Grammars(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService()

	ann, err := svc.CreateUser(ctx, "ann", "pw", "", dao.Normal)
	if !assert.NoError(err) {
		return
	}
	admin, err := svc.CreateUser(ctx, "root", "pw", "", dao.Admin)
	if !assert.NoError(err) {
		return
	}

	created, analysis, err := svc.CreateGrammar(ctx, ann.ID, "", "E -> E + T | T\nT -> id\n")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(DefaultGrammarName, created.Name)
	assert.True(created.LL1)
	assert.True(analysis.IsLL1())
	assert.Equal("E' -> + T E' | ε", created.Normalized.Rule("E'").String())

	_, _, err = svc.CreateGrammar(ctx, ann.ID, "bad", "S -> a ε\n")
	assert.ErrorIs(err, serr.ErrGrammar)
	assert.ErrorIs(err, serr.ErrBadArgument)

	conflicted, analysis, err := svc.CreateGrammar(ctx, admin.ID, "amb", "S -> a | a b\n")
	if assert.NoError(err) {
		assert.False(conflicted.LL1)
		assert.Len(analysis.Conflicts, 1)
	}

	annList, err := svc.GetAllGrammars(ctx, ann)
	if assert.NoError(err) {
		assert.Len(annList, 1)
	}
	adminList, err := svc.GetAllGrammars(ctx, admin)
	if assert.NoError(err) {
		assert.Len(adminList, 2)
	}

	got, gotAnalysis, err := svc.GetGrammar(ctx, created.ID.String())
	if !assert.NoError(err) {
		return
	}
	assert.Equal(created.ID, got.ID)

	d, err := svc.Derive(gotAnalysis, "id + id")
	if assert.NoError(err) {
		assert.True(d.Accepted)
		assert.Equal([]string{"id", "+", "id"}, d.Tree.Leaves())
	}

	d, err = svc.Derive(gotAnalysis, "id +")
	if assert.NoError(err) {
		assert.False(d.Accepted)
		assert.Equal("NoRule", d.ErrorKind)
	}

	_, err = svc.Derive(gotAnalysis, "id $")
	assert.ErrorIs(err, serr.ErrBadArgument)

	_, _, err = svc.GetGrammar(ctx, "not-a-uuid")
	assert.ErrorIs(err, serr.ErrBadArgument)

	// deleting the user deletes their grammars
	_, err = svc.DeleteUser(ctx, ann.ID.String())
	if !assert.NoError(err) {
		return
	}
	_, _, err = svc.GetGrammar(ctx, created.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)

	_, err = svc.DeleteGrammar(ctx, conflicted.ID.String())
	assert.NoError(err)
	_, err = svc.DeleteGrammar(ctx, conflicted.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

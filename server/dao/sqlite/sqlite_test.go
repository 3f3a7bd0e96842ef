package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"path/filepath"
	"testing"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"modernc.org/sqlite"
)

func newTestStore(t *testing.T) dao.Store {
	st, err := NewDatastore(t.TempDir())
	if err != nil {
		t.Fatalf("could not open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func Test_Users(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := newTestStore(t).Users()

	email, _ := mail.ParseAddress("ann@example.com")
	created, err := repo.Create(ctx, dao.User{Username: "ann", Password: "hash", Email: email, Role: dao.Admin})
	if !assert.NoError(err) {
		return
	}

	_, err = repo.Create(ctx, dao.User{Username: "ann", Password: "other"})
	assert.ErrorIs(err, dao.ErrConstraintViolation)

	got, err := repo.GetByUsername(ctx, "ann")
	if assert.NoError(err) {
		assert.Equal(created.ID, got.ID)
		assert.Equal(dao.Admin, got.Role)
		assert.Equal("ann@example.com", got.Email.Address)
		assert.True(got.LastLoginTime.IsZero())
	}

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(err, dao.ErrNotFound)

	_, err = repo.Delete(ctx, created.ID)
	assert.NoError(err)
	all, err := repo.GetAll(ctx)
	if assert.NoError(err) {
		assert.Empty(all)
	}
}

func Test_Grammars(t *testing.T) {
	testCases := []struct {
		name  string
		rules string
	}{
		{name: "single rule", rules: "S -> a"},
		{name: "with epsilon", rules: "S -> a S | ε"},
		{name: "after left recursion removal", rules: "E -> T E'\nE' -> + T E' | ε\nT -> id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()
			repo := newTestStore(t).Grammars()

			owner := uuid.New()
			normalized := grammar.MustLoad(tc.rules)

			created, err := repo.Create(ctx, dao.Grammar{Owner: owner, Name: tc.name, Source: tc.rules, Normalized: normalized, LL1: true})
			if !assert.NoError(err) {
				return
			}

			got, err := repo.GetByID(ctx, created.ID)
			if !assert.NoError(err) {
				return
			}
			assert.Equal(owner, got.Owner)
			assert.Equal(tc.rules, got.Source)
			assert.True(got.LL1)
			assert.True(normalized.Equal(got.Normalized), "expected %q but got %q", normalized.String(), got.Normalized.String())

			owned, err := repo.GetAllByOwner(ctx, owner)
			if assert.NoError(err) {
				assert.Len(owned, 1)
			}
			others, err := repo.GetAllByOwner(ctx, uuid.New())
			if assert.NoError(err) {
				assert.Empty(others)
			}

			_, err = repo.Delete(ctx, created.ID)
			assert.NoError(err)
			_, err = repo.GetByID(ctx, created.ID)
			assert.ErrorIs(err, dao.ErrNotFound)
		})
	}
}

func Test_wrapDBError(t *testing.T) {
	testCases := []struct {
		name            string
		stmts           []string
		expectIs        error
		expectContains  string
		expectSQLiteErr bool
	}{
		{
			name:            "unique violation",
			stmts:           []string{"CREATE TABLE t (v TEXT UNIQUE)", "INSERT INTO t VALUES ('a')", "INSERT INTO t VALUES ('a')"},
			expectIs:        dao.ErrConstraintViolation,
			expectContains:  "UNIQUE",
			expectSQLiteErr: false,
		},
		{
			name:            "not null violation",
			stmts:           []string{"CREATE TABLE t (v TEXT NOT NULL)", "INSERT INTO t VALUES (NULL)"},
			expectIs:        dao.ErrConstraintViolation,
			expectContains:  "NOT NULL",
			expectSQLiteErr: false,
		},
		{
			name:            "syntax error keeps cause",
			stmts:           []string{"SELEKT 1"},
			expectContains:  "SQLITE_ERROR",
			expectSQLiteErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
			if !assert.NoError(err) {
				return
			}
			defer db.Close()

			var execErr error
			for _, stmt := range tc.stmts {
				if _, execErr = db.Exec(stmt); execErr != nil {
					break
				}
			}
			if !assert.Error(execErr) {
				return
			}

			actual := wrapDBError(execErr)

			if tc.expectIs != nil {
				assert.ErrorIs(actual, tc.expectIs)
			}
			assert.Contains(actual.Error(), tc.expectContains)

			sqliteErr := &sqlite.Error{}
			assert.Equal(tc.expectSQLiteErr, errors.As(actual, &sqliteErr))
		})
	}
}

func Test_Users_UpdateToTakenUsername(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	repo := newTestStore(t).Users()

	_, err := repo.Create(ctx, dao.User{Username: "ann", Password: "hash"})
	if !assert.NoError(err) {
		return
	}
	bob, err := repo.Create(ctx, dao.User{Username: "bob", Password: "hash"})
	if !assert.NoError(err) {
		return
	}

	bob.Username = "ann"
	_, err = repo.Update(ctx, bob.ID, bob)

	assert.ErrorIs(err, dao.ErrConstraintViolation)
}

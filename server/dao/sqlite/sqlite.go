// Package sqlite provides a dao.Store that persists data in SQLite database
// files within a data directory.
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/dekarrin/llpred/grammar"
	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type store struct {
	dbFilename string

	db *sql.DB

	users    *UsersDB
	grammars *GrammarsDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "data.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.users = &UsersDB{db: st.db}
	if err := st.users.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("init users table: %w", err)
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("init grammars table: %w", err)
	}

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

// wrapDBError translates driver errors into dao errors. The driver reports
// extended result codes, so only the low byte is compared.
func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		primary := sqliteErr.Code() & 0xff
		if primary == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%w: %s", dao.ErrConstraintViolation, err.Error())
		}
		if desc, ok := sqlite.ErrorCodeString[primary]; ok {
			return fmt.Errorf("%s: %w", desc, err)
		}
		return err
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return err
	}
	*target = r
	return nil
}

func convertToDB_Email(email *mail.Address) string {
	if email == nil {
		return ""
	}
	return email.Address
}

func convertFromDB_Email(s string, target **mail.Address) error {
	if s == "" {
		*target = nil
		return nil
	}
	email, err := mail.ParseAddress(s)
	if err != nil {
		return err
	}
	*target = email
	return nil
}

// times are stored as unix seconds; the zero time is stored as 0.
func convertToDB_Time(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	if i == 0 {
		*target = time.Time{}
		return nil
	}
	*target = time.Unix(i, 0)
	return nil
}

func convertToDB_Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}

func convertFromDB_Bool(i int, target *bool) error {
	switch i {
	case 0:
		*target = false
	case 1:
		*target = true
	default:
		return fmt.Errorf("not 0 or 1: %d", i)
	}
	return nil
}

// grammars are stored as base64 of their REZI encoding.
func convertToDB_Grammar(g grammar.Grammar) string {
	return base64.StdEncoding.EncodeToString(rezi.EncBinary(g))
}

func convertFromDB_Grammar(s string, target *grammar.Grammar) error {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}

	var g grammar.Grammar
	if _, err := rezi.DecBinary(data, &g); err != nil {
		return err
	}
	*target = g
	return nil
}

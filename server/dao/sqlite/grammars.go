package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/llpred/server/dao"
	"github.com/google/uuid"
)

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	// seq orders grammars created within the same second
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		owner TEXT NOT NULL,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		normalized TEXT NOT NULL,
		ll1 INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = repo.db.ExecContext(ctx, `INSERT INTO grammars (id, owner, name, source, normalized, ll1, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(g.Owner),
		g.Name,
		g.Source,
		convertToDB_Grammar(g.Normalized),
		convertToDB_Bool(g.LL1),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, owner, name, source, normalized, ll1, created FROM grammars WHERE id = ?;`,
		convertToDB_UUID(id),
	)

	return scanGrammar(row)
}

func (repo *GrammarsDB) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, owner, name, source, normalized, ll1, created FROM grammars WHERE owner = ? ORDER BY seq;`,
		convertToDB_UUID(owner),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	return scanAllGrammars(rows)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, owner, name, source, normalized, ll1, created FROM grammars ORDER BY seq;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	return scanAllGrammars(rows)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

// Close is a no-op; the connection is shared and is closed by the store.
func (repo *GrammarsDB) Close() error {
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGrammar(row scanner) (dao.Grammar, error) {
	var g dao.Grammar
	var id string
	var owner string
	var normalized string
	var ll1 int
	var created int64

	err := row.Scan(
		&id,
		&owner,
		&g.Name,
		&g.Source,
		&normalized,
		&ll1,
		&created,
	)
	if err != nil {
		return g, wrapDBError(err)
	}

	err = convertFromDB_UUID(id, &g.ID)
	if err != nil {
		return g, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_UUID(owner, &g.Owner)
	if err != nil {
		return g, fmt.Errorf("stored owner UUID %q is invalid: %w", owner, err)
	}
	err = convertFromDB_Grammar(normalized, &g.Normalized)
	if err != nil {
		return g, fmt.Errorf("stored normalized grammar for %s is invalid: %w", id, err)
	}
	err = convertFromDB_Bool(ll1, &g.LL1)
	if err != nil {
		return g, fmt.Errorf("stored ll1 flag for %s is invalid: %w", id, err)
	}
	err = convertFromDB_Time(created, &g.Created)
	if err != nil {
		return g, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return g, nil
}

func scanAllGrammars(rows *sql.Rows) ([]dao.Grammar, error) {
	var all []dao.Grammar

	for rows.Next() {
		g, err := scanGrammar(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

package server

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dekarrin/llpred/server/dao"
	"github.com/dekarrin/llpred/server/dao/inmem"
	"github.com/dekarrin/llpred/server/dao/sqlite"
	"golang.org/x/crypto/bcrypt"
)

const (
	MaxSecretSize = 64
	MinSecretSize = 32

	defaultSecret      = "DEFAULT_TOKEN_SECRET-DO_NOT_USE_IN_PROD!"
	defaultUnauthDelay = 1000
)

// DBType is the engine behind a Database. The zero value, DatabaseNone, means
// no engine was chosen.
type DBType string

const (
	DatabaseNone     DBType = ""
	DatabaseSQLite   DBType = "sqlite"
	DatabaseInMemory DBType = "inmem"
)

func (dbt DBType) String() string {
	if dbt == DatabaseNone {
		return "none"
	}
	return string(dbt)
}

// ParseDBType parses the engine part of a connection string. Only engines that
// can be connected to are accepted.
func ParseDBType(s string) (DBType, error) {
	switch dbt := DBType(strings.ToLower(s)); dbt {
	case DatabaseSQLite, DatabaseInMemory:
		return dbt, nil
	case "none":
		return DatabaseNone, fmt.Errorf("DB engine 'none' cannot be used (perhaps you wanted 'inmem'?)")
	default:
		return DatabaseNone, fmt.Errorf("DB engine not one of 'sqlite' or 'inmem': %q", s)
	}
}

// Database says where grammars and users are persisted.
type Database struct {
	Type DBType

	// DataDir is the directory the SQLite engine keeps its file in. Other
	// engines do not use it.
	DataDir string
}

// ParseDBConnString parses a connection string of the form "engine" or
// "engine:param". "inmem" keeps everything in memory and takes no param;
// "sqlite:/var/llpred" stores data in a file under /var/llpred.
func ParseDBConnString(s string) (Database, error) {
	engine, param, _ := strings.Cut(s, ":")
	param = strings.TrimSpace(param)

	dbt, err := ParseDBType(strings.TrimSpace(engine))
	if err != nil {
		return Database{}, err
	}

	db := Database{Type: dbt}
	if dbt == DatabaseSQLite {
		if param == "" {
			return Database{}, fmt.Errorf("sqlite DB engine requires path to data directory after ':'")
		}
		db.DataDir = param
	} else if param != "" {
		return Database{}, fmt.Errorf("DB engine %q does not take params: %s", dbt.String(), param)
	}
	return db, nil
}

// Validate returns an error if db names no engine or is missing something its
// engine needs.
func (db Database) Validate() error {
	switch db.Type {
	case DatabaseInMemory:
		return nil
	case DatabaseSQLite:
		if db.DataDir == "" {
			return fmt.Errorf("DataDir not set to path")
		}
		return nil
	case DatabaseNone:
		return fmt.Errorf("no DB engine set")
	default:
		return fmt.Errorf("unknown DB engine: %q", db.Type.String())
	}
}

// Connect opens the store db describes, creating the SQLite data directory if
// needed.
func (db Database) Connect() (dao.Store, error) {
	if err := db.Validate(); err != nil {
		return nil, err
	}

	if db.Type == DatabaseInMemory {
		return inmem.NewDatastore(), nil
	}

	if err := os.MkdirAll(db.DataDir, 0770); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := sqlite.NewDatastore(db.DataDir)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite: %w", err)
	}
	return store, nil
}

// Config holds everything needed to start an LLPredServer. Any field left at
// its zero value is given a default by FillDefaults.
type Config struct {
	// TokenSecret signs the JWTs handed to clients. Defaults to a fixed
	// development secret.
	TokenSecret []byte

	// DB defaults to the in-memory engine.
	DB Database

	// UnauthDelayMillis is how long to hold responses that deny a client
	// (HTTP-401, HTTP-403, HTTP-500) before sending them. Defaults to 1000;
	// any negative number turns the delay off.
	UnauthDelayMillis int

	// PasswordHashCost is the bcrypt cost for stored passwords. Defaults to
	// bcrypt.DefaultCost.
	PasswordHashCost int
}

// UnauthDelay gives UnauthDelayMillis as a duration. It is zero when the delay
// is turned off.
func (cfg Config) UnauthDelay() time.Duration {
	if cfg.UnauthDelayMillis < 1 {
		return 0
	}
	return time.Duration(cfg.UnauthDelayMillis) * time.Millisecond
}

// FillDefaults returns a copy of cfg with every unset field given its default.
func (cfg Config) FillDefaults() Config {
	if cfg.TokenSecret == nil {
		cfg.TokenSecret = []byte(defaultSecret)
	}
	if cfg.DB.Type == DatabaseNone {
		cfg.DB = Database{Type: DatabaseInMemory}
	}
	if cfg.UnauthDelayMillis == 0 {
		cfg.UnauthDelayMillis = defaultUnauthDelay
	}
	if cfg.PasswordHashCost == 0 {
		cfg.PasswordHashCost = bcrypt.DefaultCost
	}
	return cfg
}

// Validate checks cfg as it is; unset fields are errors. Call it on the result
// of FillDefaults to accept defaults.
func (cfg Config) Validate() error {
	if n := len(cfg.TokenSecret); n < MinSecretSize || n > MaxSecretSize {
		return fmt.Errorf("token secret: must be between %d and %d bytes, but is %d", MinSecretSize, MaxSecretSize, n)
	}
	if err := cfg.DB.Validate(); err != nil {
		return fmt.Errorf("db: %w", err)
	}
	if cfg.PasswordHashCost < bcrypt.MinCost || cfg.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("password hash cost: must be between %d and %d, but is %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.PasswordHashCost)
	}
	return nil
}

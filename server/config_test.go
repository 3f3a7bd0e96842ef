package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func Test_ParseDBConnString(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Database
		expectErr bool
	}{
		{name: "inmem", input: "inmem", expect: Database{Type: DatabaseInMemory}},
		{name: "inmem is case-insensitive", input: "INMEM", expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite with dir", input: "sqlite:/var/llpred", expect: Database{Type: DatabaseSQLite, DataDir: "/var/llpred"}},
		{name: "sqlite without dir", input: "sqlite", expectErr: true},
		{name: "inmem with params", input: "inmem:foo", expectErr: true},
		{name: "none", input: "none", expectErr: true},
		{name: "empty", input: "", expectErr: true},
		{name: "unknown engine", input: "postgres:localhost", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := ParseDBConnString(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Config_FillDefaultsThenValidate(t *testing.T) {
	testCases := []struct {
		name      string
		cfg       Config
		expectErr bool
	}{
		{name: "empty config", cfg: Config{}},
		{name: "short secret", cfg: Config{TokenSecret: []byte("short")}, expectErr: true},
		{name: "long secret", cfg: Config{TokenSecret: make([]byte, MaxSecretSize+1)}, expectErr: true},
		{name: "sqlite without dir", cfg: Config{DB: Database{Type: DatabaseSQLite}}, expectErr: true},
		{name: "hash cost too high", cfg: Config{PasswordHashCost: 99}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			err := tc.cfg.FillDefaults().Validate()
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
		})
	}
}

func Test_Config_UnauthDelay(t *testing.T) {
	assert := assert.New(t)

	assert.Zero(Config{UnauthDelayMillis: -1}.UnauthDelay())
	assert.Equal(int64(250), Config{UnauthDelayMillis: 250}.UnauthDelay().Milliseconds())
}

func Test_Config_FillDefaults_DB(t *testing.T) {
	testCases := []struct {
		name   string
		db     Database
		expect Database
	}{
		{name: "unset DB uses inmem", db: Database{}, expect: Database{Type: DatabaseInMemory}},
		{name: "sqlite is kept", db: Database{Type: DatabaseSQLite, DataDir: "/data"}, expect: Database{Type: DatabaseSQLite, DataDir: "/data"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Config{DB: tc.db}.FillDefaults()

			assert.Equal(tc.expect, actual.DB)
		})
	}
}

func Test_Database_Validate_None(t *testing.T) {
	assert := assert.New(t)

	assert.Error(Database{}.Validate())
	assert.Equal("none", DatabaseNone.String())
}

func Test_New_ZeroValueDB(t *testing.T) {
	assert := assert.New(t)

	lps, err := New(Config{
		TokenSecret:      []byte("0123456789abcdef0123456789abcdef"),
		PasswordHashCost: bcrypt.MinCost,
	})
	if !assert.NoError(err) {
		return
	}
	defer lps.Close()

	assert.NotNil(lps.Handler())
}

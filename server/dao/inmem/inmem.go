// Package inmem provides a dao.Store that keeps everything in memory. All data
// is lost when the process exits.
package inmem

import (
	"fmt"

	"github.com/dekarrin/llpred/server/dao"
)

type store struct {
	users    *InMemoryUsersRepository
	grammars *InMemoryGrammarsRepository
}

func NewDatastore() dao.Store {
	return &store{
		users:    NewUsersRepository(),
		grammars: NewGrammarsRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Grammars() dao.GrammarRepository {
	return s.grammars
}

func (s *store) Close() error {
	var err error

	if nextErr := s.users.Close(); nextErr != nil {
		err = fmt.Errorf("users: %w", nextErr)
	}
	if nextErr := s.grammars.Close(); nextErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally, grammars: %w", err, nextErr)
		} else {
			err = fmt.Errorf("grammars: %w", nextErr)
		}
	}

	return err
}

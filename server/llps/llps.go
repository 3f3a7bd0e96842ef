// Package llps has services for interacting with the LLPred server backend
// decoupled from the API that accesses it.
package llps

import (
	"github.com/dekarrin/llpred/server/dao"
	"golang.org/x/crypto/bcrypt"
)

// Service is a service for interacting with and modifying the LLPred server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB before attempting to use it.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// HashCost is the bcrypt cost used when hashing new passwords. If not set,
	// bcrypt.DefaultCost is used.
	HashCost int
}

func (svc Service) hashCost() int {
	if svc.HashCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return svc.HashCost
}

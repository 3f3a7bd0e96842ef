package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/llpred/server/dao"
	"github.com/google/uuid"
)

func NewGrammarsRepository() *InMemoryGrammarsRepository {
	return &InMemoryGrammarsRepository{
		grammars: make(map[uuid.UUID]dao.Grammar),
	}
}

type InMemoryGrammarsRepository struct {
	mtx      sync.RWMutex
	grammars map[uuid.UUID]dao.Grammar

	// creation order
	order []uuid.UUID
}

func (imgr *InMemoryGrammarsRepository) Close() error {
	return nil
}

func (imgr *InMemoryGrammarsRepository) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	g.ID = newUUID
	g.Created = time.Now()
	g.Normalized = g.Normalized.Copy()

	imgr.grammars[g.ID] = g
	imgr.order = append(imgr.order, g.ID)

	return copyGrammar(g), nil
}

func (imgr *InMemoryGrammarsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	return copyGrammar(g), nil
}

func (imgr *InMemoryGrammarsRepository) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	var all []dao.Grammar
	for _, id := range imgr.order {
		g := imgr.grammars[id]
		if g.Owner == owner {
			all = append(all, copyGrammar(g))
		}
	}

	return all, nil
}

func (imgr *InMemoryGrammarsRepository) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	imgr.mtx.RLock()
	defer imgr.mtx.RUnlock()

	all := make([]dao.Grammar, len(imgr.order))
	for i, id := range imgr.order {
		all[i] = copyGrammar(imgr.grammars[id])
	}

	return all, nil
}

func (imgr *InMemoryGrammarsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	imgr.mtx.Lock()
	defer imgr.mtx.Unlock()

	g, ok := imgr.grammars[id]
	if !ok {
		return dao.Grammar{}, dao.ErrNotFound
	}

	delete(imgr.grammars, id)
	for i := range imgr.order {
		if imgr.order[i] == id {
			imgr.order = append(imgr.order[:i], imgr.order[i+1:]...)
			break
		}
	}

	return g, nil
}

func copyGrammar(g dao.Grammar) dao.Grammar {
	g.Normalized = g.Normalized.Copy()
	return g
}

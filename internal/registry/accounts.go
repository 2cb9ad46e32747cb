package registry

import (
	"context"
	"fmt"

	"github.com/artchain-labs/artwork-indexer/internal/domain"
	"github.com/artchain-labs/artwork-indexer/internal/store"
	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

// AccountRegistry maps chain addresses to stable account records
//
//go:generate mockgen -source=accounts.go -destination=../mocks/account_registry.go -package=mocks -mock_names=AccountRegistry=MockAccountRegistry
type AccountRegistry interface {
	// GetOrCreate returns the account for an address, creating it on first
	// sight. Idempotent: a second call with the same address returns the
	// existing record without mutation.
	GetOrCreate(ctx context.Context, address string) (*schema.Account, error)
}

type accountRegistry struct {
	store store.Store
}

// NewAccountRegistry creates a store-backed account registry
func NewAccountRegistry(st store.Store) AccountRegistry {
	return &accountRegistry{store: st}
}

func (r *accountRegistry) GetOrCreate(ctx context.Context, address string) (*schema.Account, error) {
	id := domain.NormalizeAddress(address)

	account, err := r.store.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account %s: %w", id, err)
	}
	if account != nil {
		return account, nil
	}

	account = &schema.Account{ID: id}
	if err := r.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", id, err)
	}

	return account, nil
}

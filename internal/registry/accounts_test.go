package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artchain-labs/artwork-indexer/internal/mocks"
	"github.com/artchain-labs/artwork-indexer/internal/registry"
	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

func TestAccountRegistry_GetOrCreate_New(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	accounts := registry.NewAccountRegistry(st)

	ctx := context.Background()
	normalized := "0xab5801a7d398351b8be11c439e05c5b3259aec9b"

	st.EXPECT().
		GetAccount(gomock.Any(), normalized).
		Return(nil, nil)
	st.EXPECT().
		CreateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, account *schema.Account) error {
			assert.Equal(t, normalized, account.ID)
			return nil
		})

	// Checksummed input normalizes to the canonical lower-case id
	account, err := accounts.GetOrCreate(ctx, "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	require.NoError(t, err)
	assert.Equal(t, normalized, account.ID)
}

func TestAccountRegistry_GetOrCreate_Existing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	accounts := registry.NewAccountRegistry(st)

	ctx := context.Background()
	existing := &schema.Account{ID: "0xab5801a7d398351b8be11c439e05c5b3259aec9b"}

	// No CreateAccount call for a known address
	st.EXPECT().
		GetAccount(gomock.Any(), existing.ID).
		Return(existing, nil)

	account, err := accounts.GetOrCreate(ctx, existing.ID)
	require.NoError(t, err)
	assert.Same(t, existing, account)
}

func TestAccountRegistry_GetOrCreate_LookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	st := mocks.NewMockStore(ctrl)
	accounts := registry.NewAccountRegistry(st)

	st.EXPECT().
		GetAccount(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	_, err := accounts.GetOrCreate(context.Background(), "0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	assert.Error(t, err)
}

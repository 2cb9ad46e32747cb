package reconciler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artchain-labs/artwork-indexer/internal/bidledger"
	"github.com/artchain-labs/artwork-indexer/internal/domain"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/mocks"
	"github.com/artchain-labs/artwork-indexer/internal/reconciler"
	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

const (
	testContract = "0x1234567890abcdef1234567890abcdef12345678"
	testCreator  = "0x1111111111111111111111111111111111111111"
	testBuyer    = "0x2222222222222222222222222222222222222222"
	testBidder   = "0x3333333333333333333333333333333333333333"
)

type testReconcilerMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	accounts *mocks.MockAccountRegistry
	bids     *mocks.MockLedger
	resolver *mocks.MockMetadataResolver
	contract *mocks.MockContractReader
	core     reconciler.Reconciler
}

func setupTestReconciler(t *testing.T) *testReconcilerMocks {
	err := logger.Initialize(logger.Config{Debug: true})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)

	tm := &testReconcilerMocks{
		ctrl:     ctrl,
		store:    mocks.NewMockStore(ctrl),
		accounts: mocks.NewMockAccountRegistry(ctrl),
		bids:     mocks.NewMockLedger(ctrl),
		resolver: mocks.NewMockMetadataResolver(ctrl),
		contract: mocks.NewMockContractReader(ctrl),
	}
	tm.core = reconciler.NewReconciler(tm.store, tm.accounts, tm.bids, tm.resolver, tm.contract)

	return tm
}

func strPtr(s string) *string {
	return &s
}

func newEvent(eventType domain.EventType, tokenNumber string) *domain.ContractEvent {
	return &domain.ContractEvent{
		Chain:           domain.ChainEthereumMainnet,
		ContractAddress: testContract,
		EventType:       eventType,
		TokenNumber:     tokenNumber,
		TxHash:          "0xabc",
		BlockNumber:     100,
		Timestamp:       time.Unix(1700000000, 0),
	}
}

func TestReconciler_Mint(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeTransfer, "42")
	event.FromAddress = strPtr(domain.ETHEREUM_ZERO_ADDRESS)
	event.ToAddress = strPtr(testCreator)

	creator := &schema.Account{ID: testCreator}
	tm.accounts.EXPECT().
		GetOrCreate(gomock.Any(), testCreator).
		Return(creator, nil)
	tm.contract.EXPECT().
		TokenURI(gomock.Any(), testContract, "42").
		Return("ipfs://ipfs/QmXYZ", nil)
	tm.resolver.EXPECT().
		Resolve(gomock.Any(), gomock.Any(), "ipfs://ipfs/QmXYZ")
	tm.store.EXPECT().
		SaveArtwork(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *schema.Artwork) error {
			assert.Equal(t, "42", item.ID)
			assert.Equal(t, "42", item.TokenNumber)
			// Mint recipient becomes both creator and first owner
			assert.Equal(t, testCreator, item.CreatorID)
			assert.Equal(t, testCreator, item.OwnerID)
			assert.Equal(t, event.Timestamp, item.CreationDate)
			assert.False(t, item.Burned)
			return nil
		})

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Mint_TokenURIFailure(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeTransfer, "42")
	event.FromAddress = strPtr(domain.ETHEREUM_ZERO_ADDRESS)
	event.ToAddress = strPtr(testCreator)

	tm.accounts.EXPECT().
		GetOrCreate(gomock.Any(), testCreator).
		Return(&schema.Account{ID: testCreator}, nil)
	tm.contract.EXPECT().
		TokenURI(gomock.Any(), testContract, "42").
		Return("", errors.New("execution reverted"))
	// No resolver call; the artwork is persisted as broken
	tm.store.EXPECT().
		SaveArtwork(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *schema.Artwork) error {
			assert.True(t, item.Broken)
			return nil
		})

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Transfer(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeTransfer, "42")
	event.FromAddress = strPtr(testCreator)
	event.ToAddress = strPtr(testBuyer)

	existing := &schema.Artwork{ID: "42", TokenNumber: "42", CreatorID: testCreator, OwnerID: testCreator}
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)
	tm.accounts.EXPECT().
		GetOrCreate(gomock.Any(), testBuyer).
		Return(&schema.Account{ID: testBuyer}, nil)
	tm.store.EXPECT().
		SaveArtwork(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *schema.Artwork) error {
			assert.Equal(t, testBuyer, item.OwnerID)
			// Creator is immutable after mint
			assert.Equal(t, testCreator, item.CreatorID)
			require.NotNil(t, item.Modified)
			assert.Equal(t, event.Timestamp, *item.Modified)
			return nil
		})

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Transfer_MissingArtwork(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeTransfer, "42")
	event.FromAddress = strPtr(testCreator)
	event.ToAddress = strPtr(testBuyer)

	// Logged but tolerated; no save, no account creation
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(nil, nil)

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Burn(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeTransfer, "42")
	event.FromAddress = strPtr(testCreator)
	event.ToAddress = strPtr(domain.ETHEREUM_ZERO_ADDRESS)

	existing := &schema.Artwork{ID: "42", TokenNumber: "42", CreatorID: testCreator, OwnerID: testCreator}
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)
	tm.store.EXPECT().
		SaveArtwork(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *schema.Artwork) error {
			assert.True(t, item.Burned)
			require.NotNil(t, item.Removed)
			assert.Equal(t, event.Timestamp, *item.Removed)
			// Ownership is untouched by a burn
			assert.Equal(t, testCreator, item.OwnerID)
			return nil
		})

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Burn_Idempotent(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeTransfer, "42")
	event.FromAddress = strPtr(testCreator)
	event.ToAddress = strPtr(domain.ETHEREUM_ZERO_ADDRESS)

	firstRemoval := time.Unix(1600000000, 0)
	existing := &schema.Artwork{ID: "42", TokenNumber: "42", Burned: true, Removed: &firstRemoval}

	// A second burn must not overwrite the original removal timestamp
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)

	require.NoError(t, tm.core.Handle(context.Background(), event))
	assert.Equal(t, firstRemoval, *existing.Removed)
}

func TestReconciler_Approval(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeApproval, "42")

	existing := &schema.Artwork{ID: "42", TokenNumber: "42"}
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)
	tm.store.EXPECT().
		SaveArtwork(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *schema.Artwork) error {
			assert.True(t, item.ForSale)
			return nil
		})

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Approval_MissingArtwork(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeApproval, "42")

	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(nil, nil)

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Bid(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeBid, "42")
	event.Bidder = strPtr(testBidder)
	event.BidAmount = strPtr("1000000000000000000")

	existing := &schema.Artwork{ID: "42", TokenNumber: "42"}
	bidder := &schema.Account{ID: testBidder}

	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)
	tm.accounts.EXPECT().
		GetOrCreate(gomock.Any(), testBidder).
		Return(bidder, nil)
	tm.bids.EXPECT().
		RecordBid(gomock.Any(), existing, bidder, "1000000000000000000", event.Timestamp).
		Return(&schema.BidLog{ID: "42-0x3-1700000000"}, nil)

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_Bid_MissingArtwork(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeBid, "42")
	event.Bidder = strPtr(testBidder)
	event.BidAmount = strPtr("100")

	// No bidder account is created for a bid on an unknown token
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(nil, nil)

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_AcceptBid(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeAcceptBid, "42")

	bidID := "42-0x3-1700000000"
	existing := &schema.Artwork{ID: "42", TokenNumber: "42", ForSale: true, CurrentBidID: &bidID}

	// The sale-state change rides along with the bid resolution; no
	// separate artwork write
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)
	tm.bids.EXPECT().
		ResolveCurrent(gomock.Any(), existing, bidledger.OutcomeAccepted).
		DoAndReturn(func(_ context.Context, item *schema.Artwork, _ bidledger.Outcome) error {
			assert.False(t, item.ForSale)
			return nil
		})

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_AcceptBid_FailedResolveLeavesNoArtworkWrite(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeAcceptBid, "42")

	bidID := "42-0x3-1700000000"
	existing := &schema.Artwork{ID: "42", TokenNumber: "42", ForSale: true, CurrentBidID: &bidID}

	// When resolution fails nothing may have been persisted, so the event
	// can be redelivered against unchanged state
	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)
	tm.bids.EXPECT().
		ResolveCurrent(gomock.Any(), existing, bidledger.OutcomeAccepted).
		Return(errors.New("deadlock detected"))

	assert.Error(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_CancelBid(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeCancelBid, "42")

	bidID := "42-0x3-1700000000"
	existing := &schema.Artwork{ID: "42", TokenNumber: "42", CurrentBidID: &bidID}

	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(existing, nil)
	tm.bids.EXPECT().
		ResolveCurrent(gomock.Any(), existing, bidledger.OutcomeCanceled).
		Return(nil)

	require.NoError(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_IgnoredEvents(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	// No store interaction at all
	for _, eventType := range []domain.EventType{
		domain.EventTypeApprovalForAll,
		domain.EventTypeOwnershipTransferred,
	} {
		event := newEvent(eventType, "")
		require.NoError(t, tm.core.Handle(context.Background(), event), string(eventType))
	}
}

func TestReconciler_UnknownEventType(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent("mystery", "42")
	assert.Error(t, tm.core.Handle(context.Background(), event))
}

func TestReconciler_StoreErrorPropagates(t *testing.T) {
	tm := setupTestReconciler(t)
	defer tm.ctrl.Finish()

	event := newEvent(domain.EventTypeTransfer, "42")
	event.FromAddress = strPtr(testCreator)
	event.ToAddress = strPtr(testBuyer)

	tm.store.EXPECT().
		GetArtwork(gomock.Any(), "42").
		Return(nil, errors.New("connection refused"))

	assert.Error(t, tm.core.Handle(context.Background(), event))
}

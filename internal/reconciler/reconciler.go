package reconciler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/artchain-labs/artwork-indexer/internal/bidledger"
	"github.com/artchain-labs/artwork-indexer/internal/contract"
	"github.com/artchain-labs/artwork-indexer/internal/domain"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/metadata"
	"github.com/artchain-labs/artwork-indexer/internal/registry"
	"github.com/artchain-labs/artwork-indexer/internal/store"
	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

// Reconciler applies contract events to per-token artwork state.
//
// Per token the lifecycle is non-existent -> minted -> (optionally) burned.
// Every non-mint event first checks artwork existence; a missing artwork is
// a silent no-op, except for transfers which log a warning. Enrichment
// failures (metadata fetch/parse) never abort event processing; only store
// failures propagate so the dispatcher can redeliver.
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/reconciler.go -package=mocks -mock_names=Reconciler=MockReconciler
type Reconciler interface {
	// Handle fully processes one contract event before returning
	Handle(ctx context.Context, event *domain.ContractEvent) error
}

type reconciler struct {
	store    store.Store
	accounts registry.AccountRegistry
	bids     bidledger.Ledger
	metadata metadata.Resolver
	contract contract.Reader
}

// NewReconciler creates an artwork reconciler
func NewReconciler(
	st store.Store,
	accounts registry.AccountRegistry,
	bids bidledger.Ledger,
	resolver metadata.Resolver,
	reader contract.Reader,
) Reconciler {
	return &reconciler{
		store:    st,
		accounts: accounts,
		bids:     bids,
		metadata: resolver,
		contract: reader,
	}
}

func (r *reconciler) Handle(ctx context.Context, event *domain.ContractEvent) error {
	switch event.EventType {
	case domain.EventTypeTransfer:
		return r.handleTransfer(ctx, event)
	case domain.EventTypeApproval:
		return r.handleApproval(ctx, event)
	case domain.EventTypeBid:
		return r.handleBid(ctx, event)
	case domain.EventTypeAcceptBid:
		return r.handleAcceptBid(ctx, event)
	case domain.EventTypeCancelBid:
		return r.handleCancelBid(ctx, event)
	case domain.EventTypeApprovalForAll, domain.EventTypeOwnershipTransferred:
		// Contract-level events outside token scope; explicitly ignored
		return nil
	default:
		return fmt.Errorf("unknown event type: %s", event.EventType)
	}
}

func (r *reconciler) handleTransfer(ctx context.Context, event *domain.ContractEvent) error {
	if event.IsMint() {
		return r.handleMint(ctx, event)
	}

	item, err := r.store.GetArtwork(ctx, event.TokenNumber)
	if err != nil {
		return err
	}
	if item == nil {
		logger.WarnCtx(ctx, "artwork does not exist", zap.String("tokenId", event.TokenNumber), zap.String("txHash", event.TxHash))
		return nil
	}

	if event.IsBurn() {
		// Idempotent burn: a redelivered or spurious second burn must not
		// overwrite the original removal timestamp
		if item.Burned {
			logger.DebugCtx(ctx, "artwork already burned", zap.String("tokenId", item.ID))
			return nil
		}
		removed := event.Timestamp
		item.Burned = true
		item.Removed = &removed
		return r.store.SaveArtwork(ctx, item)
	}

	owner, err := r.accounts.GetOrCreate(ctx, *event.ToAddress)
	if err != nil {
		return err
	}
	modified := event.Timestamp
	item.OwnerID = owner.ID
	item.Modified = &modified
	return r.store.SaveArtwork(ctx, item)
}

func (r *reconciler) handleMint(ctx context.Context, event *domain.ContractEvent) error {
	creator, err := r.accounts.GetOrCreate(ctx, *event.ToAddress)
	if err != nil {
		return err
	}

	item := &schema.Artwork{
		ID:           event.TokenNumber,
		TokenNumber:  event.TokenNumber,
		CreatorID:    creator.ID,
		OwnerID:      creator.ID,
		CreationDate: event.Timestamp,
	}

	// The event carries no locator; read it from the contract at the
	// current block
	locator, err := r.contract.TokenURI(ctx, event.ContractAddress, event.TokenNumber)
	if err != nil {
		logger.WarnCtx(ctx, "failed to read token URI", zap.String("tokenId", item.ID), zap.Error(err))
		locator = ""
	}

	if locator == "" {
		item.Broken = true
	} else {
		r.metadata.Resolve(ctx, item, locator)
	}

	return r.store.SaveArtwork(ctx, item)
}

func (r *reconciler) handleApproval(ctx context.Context, event *domain.ContractEvent) error {
	item, err := r.store.GetArtwork(ctx, event.TokenNumber)
	if err != nil || item == nil {
		return err
	}

	item.ForSale = true
	return r.store.SaveArtwork(ctx, item)
}

func (r *reconciler) handleBid(ctx context.Context, event *domain.ContractEvent) error {
	item, err := r.store.GetArtwork(ctx, event.TokenNumber)
	if err != nil || item == nil {
		return err
	}

	bidder, err := r.accounts.GetOrCreate(ctx, *event.Bidder)
	if err != nil {
		return err
	}

	_, err = r.bids.RecordBid(ctx, item, bidder, *event.BidAmount, event.Timestamp)
	return err
}

func (r *reconciler) handleAcceptBid(ctx context.Context, event *domain.ContractEvent) error {
	item, err := r.store.GetArtwork(ctx, event.TokenNumber)
	if err != nil || item == nil {
		return err
	}

	// The ledger persists the artwork together with the bid outcome, so the
	// sale-state change and the accepted flag land atomically
	item.ForSale = false
	return r.bids.ResolveCurrent(ctx, item, bidledger.OutcomeAccepted)
}

func (r *reconciler) handleCancelBid(ctx context.Context, event *domain.ContractEvent) error {
	item, err := r.store.GetArtwork(ctx, event.TokenNumber)
	if err != nil || item == nil {
		return err
	}

	return r.bids.ResolveCurrent(ctx, item, bidledger.OutcomeCanceled)
}

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

func buildTestAccount(suffix string) *schema.Account {
	return &schema.Account{
		ID: fmt.Sprintf("0x%040s", suffix),
	}
}

func buildTestArtwork(tokenNumber string, owner *schema.Account) *schema.Artwork {
	return &schema.Artwork{
		ID:           tokenNumber,
		TokenNumber:  tokenNumber,
		CreatorID:    owner.ID,
		OwnerID:      owner.ID,
		CreationDate: time.Now().UTC().Truncate(time.Second),
	}
}

func buildTestBid(artwork *schema.Artwork, bidder *schema.Account, amount string, timestamp time.Time) *schema.BidLog {
	return &schema.BidLog{
		ID:        fmt.Sprintf("%s-%s-%d", artwork.ID, bidder.ID, timestamp.Unix()),
		Amount:    amount,
		BidderID:  bidder.ID,
		ArtworkID: artwork.ID,
		Timestamp: timestamp,
	}
}

// mustCreateArtwork persists an account and an artwork owned by it
func mustCreateArtwork(t *testing.T, store Store, tokenNumber, accountSuffix string) (*schema.Artwork, *schema.Account) {
	ctx := context.Background()
	account := buildTestAccount(accountSuffix)
	require.NoError(t, store.CreateAccount(ctx, account))
	artwork := buildTestArtwork(tokenNumber, account)
	require.NoError(t, store.SaveArtwork(ctx, artwork))
	return artwork, account
}

// =============================================================================
// Test Suite
// =============================================================================

// RunStoreTests runs the full store test suite against an implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store Store)
	}{
		{"Accounts", testAccounts},
		{"Artworks", testArtworks},
		{"BidLogs", testBidLogs},
		{"RecordBid", testRecordBid},
		{"ResolveBid", testResolveBid},
		{"ListBrokenArtworks", testListBrokenArtworks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}

func testAccounts(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get non-existent account returns nil", func(t *testing.T) {
		account, err := store.GetAccount(ctx, "0xmissing")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("create and get account", func(t *testing.T) {
		account := buildTestAccount("a1")
		require.NoError(t, store.CreateAccount(ctx, account))

		got, err := store.GetAccount(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, account.ID, got.ID)
	})

	t.Run("duplicate create is a no-op", func(t *testing.T) {
		account := buildTestAccount("a2")
		require.NoError(t, store.CreateAccount(ctx, account))

		first, err := store.GetAccount(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, first)

		require.NoError(t, store.CreateAccount(ctx, buildTestAccount("a2")))

		second, err := store.GetAccount(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
	})
}

func testArtworks(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get non-existent artwork returns nil", func(t *testing.T) {
		artwork, err := store.GetArtwork(ctx, "999999")
		require.NoError(t, err)
		assert.Nil(t, artwork)
	})

	t.Run("save and get artwork", func(t *testing.T) {
		artwork, account := mustCreateArtwork(t, store, "1", "b1")

		got, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, artwork.TokenNumber, got.TokenNumber)
		assert.Equal(t, account.ID, got.CreatorID)
		assert.Equal(t, account.ID, got.OwnerID)
		assert.False(t, got.Burned)
		assert.False(t, got.ForSale)
		assert.False(t, got.Broken)
	})

	t.Run("save upserts existing artwork", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "2", "b2")
		buyer := buildTestAccount("b3")
		require.NoError(t, store.CreateAccount(ctx, buyer))

		modified := time.Now().UTC().Truncate(time.Second)
		artwork.OwnerID = buyer.ID
		artwork.Modified = &modified
		artwork.ForSale = true
		require.NoError(t, store.SaveArtwork(ctx, artwork))

		got, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, buyer.ID, got.OwnerID)
		assert.True(t, got.ForSale)
		require.NotNil(t, got.Modified)
	})

	t.Run("optional fields round-trip", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "3", "b4")

		name := "Genesis"
		mimeType := "image/png"
		tagsString := "generative onchain"
		artwork.Name = &name
		artwork.MimeType = &mimeType
		artwork.Tags = schema.Tags{"generative", "onchain"}
		artwork.TagsString = &tagsString
		artwork.RawMetadata = []byte(`{"name":"Genesis"}`)
		require.NoError(t, store.SaveArtwork(ctx, artwork))

		got, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.Name)
		assert.Equal(t, "Genesis", *got.Name)
		assert.Equal(t, schema.Tags{"generative", "onchain"}, got.Tags)
		assert.JSONEq(t, `{"name":"Genesis"}`, string(got.RawMetadata))
	})

	t.Run("large token number survives", func(t *testing.T) {
		huge := "115792089237316195423570985008687907853269984665640564039457584007913129639935"
		artwork, _ := mustCreateArtwork(t, store, huge, "b5")

		got, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, huge, got.TokenNumber)
	})
}

func testBidLogs(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("get non-existent bid returns nil", func(t *testing.T) {
		bid, err := store.GetBidLog(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, bid)
	})

	t.Run("save and get bid", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "10", "c1")
		bidder := buildTestAccount("c2")
		require.NoError(t, store.CreateAccount(ctx, bidder))

		timestamp := time.Now().UTC().Truncate(time.Second)
		bid := buildTestBid(artwork, bidder, "1000000000000000000", timestamp)
		require.NoError(t, store.SaveBidLog(ctx, bid))

		got, err := store.GetBidLog(ctx, bid.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "1000000000000000000", got.Amount)
		assert.Equal(t, bidder.ID, got.BidderID)
		assert.Equal(t, artwork.ID, got.ArtworkID)
		assert.False(t, got.Accepted)
		assert.False(t, got.Canceled)
	})

	t.Run("save upserts terminal flags", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "11", "c3")
		bidder := buildTestAccount("c4")
		require.NoError(t, store.CreateAccount(ctx, bidder))

		bid := buildTestBid(artwork, bidder, "100", time.Now().UTC())
		require.NoError(t, store.SaveBidLog(ctx, bid))

		bid.Accepted = true
		require.NoError(t, store.SaveBidLog(ctx, bid))

		got, err := store.GetBidLog(ctx, bid.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.Accepted)
	})
}

func testRecordBid(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("inserts bid and updates current bid reference", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "20", "d1")
		bidder := buildTestAccount("d2")
		require.NoError(t, store.CreateAccount(ctx, bidder))

		bid := buildTestBid(artwork, bidder, "500", time.Now().UTC())
		require.NoError(t, store.RecordBid(ctx, bid))

		gotBid, err := store.GetBidLog(ctx, bid.ID)
		require.NoError(t, err)
		require.NotNil(t, gotBid)

		gotArtwork, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, gotArtwork)
		require.NotNil(t, gotArtwork.CurrentBidID)
		assert.Equal(t, bid.ID, *gotArtwork.CurrentBidID)
	})

	t.Run("newer bid supersedes the current reference", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "21", "d3")
		first := buildTestAccount("d4")
		second := buildTestAccount("d5")
		require.NoError(t, store.CreateAccount(ctx, first))
		require.NoError(t, store.CreateAccount(ctx, second))

		base := time.Now().UTC()
		bidA := buildTestBid(artwork, first, "100", base)
		bidB := buildTestBid(artwork, second, "200", base.Add(time.Minute))
		require.NoError(t, store.RecordBid(ctx, bidA))
		require.NoError(t, store.RecordBid(ctx, bidB))

		gotArtwork, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, gotArtwork.CurrentBidID)
		assert.Equal(t, bidB.ID, *gotArtwork.CurrentBidID)

		// The superseded bid is still in the ledger
		gotA, err := store.GetBidLog(ctx, bidA.ID)
		require.NoError(t, err)
		require.NotNil(t, gotA)
	})

	t.Run("redelivered bid is idempotent", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "22", "d6")
		bidder := buildTestAccount("d7")
		require.NoError(t, store.CreateAccount(ctx, bidder))

		timestamp := time.Now().UTC()
		bid := buildTestBid(artwork, bidder, "300", timestamp)
		require.NoError(t, store.RecordBid(ctx, bid))

		duplicate := buildTestBid(artwork, bidder, "300", timestamp)
		require.NoError(t, store.RecordBid(ctx, duplicate))

		gotArtwork, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, gotArtwork.CurrentBidID)
		assert.Equal(t, bid.ID, *gotArtwork.CurrentBidID)
	})
}

func testResolveBid(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("persists artwork and bid outcome together", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "25", "f1")
		bidder := buildTestAccount("f2")
		require.NoError(t, store.CreateAccount(ctx, bidder))

		bid := buildTestBid(artwork, bidder, "700", time.Now().UTC())
		require.NoError(t, store.RecordBid(ctx, bid))
		artwork.CurrentBidID = &bid.ID

		artwork.ForSale = false
		bid.Accepted = true
		require.NoError(t, store.ResolveBid(ctx, artwork, bid))

		gotArtwork, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, gotArtwork)
		assert.False(t, gotArtwork.ForSale)

		gotBid, err := store.GetBidLog(ctx, bid.ID)
		require.NoError(t, err)
		require.NotNil(t, gotBid)
		assert.True(t, gotBid.Accepted)
		assert.False(t, gotBid.Canceled)
	})

	t.Run("rejects an orphan bid without touching the artwork", func(t *testing.T) {
		artwork, _ := mustCreateArtwork(t, store, "26", "f3")
		artwork.ForSale = true
		require.NoError(t, store.SaveArtwork(ctx, artwork))

		// Bidder row missing: the bid insert violates its foreign key, so
		// the whole transaction rolls back
		orphanBidder := buildTestAccount("f4")
		bid := buildTestBid(artwork, orphanBidder, "800", time.Now().UTC())
		bid.Canceled = true

		artwork.ForSale = false
		require.Error(t, store.ResolveBid(ctx, artwork, bid))

		gotArtwork, err := store.GetArtwork(ctx, artwork.ID)
		require.NoError(t, err)
		require.NotNil(t, gotArtwork)
		assert.True(t, gotArtwork.ForSale)

		gotBid, err := store.GetBidLog(ctx, bid.ID)
		require.NoError(t, err)
		assert.Nil(t, gotBid)
	})
}

func testListBrokenArtworks(t *testing.T, store Store) {
	ctx := context.Background()

	markBroken := func(artwork *schema.Artwork, burned bool) {
		artwork.Broken = true
		artwork.Burned = burned
		require.NoError(t, store.SaveArtwork(ctx, artwork))
	}

	healthy, _ := mustCreateArtwork(t, store, "30", "e1")
	_ = healthy
	broken, _ := mustCreateArtwork(t, store, "31", "e2")
	markBroken(broken, false)
	brokenAndBurned, _ := mustCreateArtwork(t, store, "32", "e3")
	markBroken(brokenAndBurned, true)

	t.Run("returns only unburned broken artworks", func(t *testing.T) {
		cutoff := time.Now().UTC().Add(time.Hour)
		got, err := store.ListBrokenArtworks(ctx, cutoff, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, broken.ID, got[0].ID)
	})

	t.Run("respects the recheck cutoff", func(t *testing.T) {
		cutoff := time.Now().UTC().Add(-time.Hour)
		got, err := store.ListBrokenArtworks(ctx, cutoff, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("respects the batch limit", func(t *testing.T) {
		another, _ := mustCreateArtwork(t, store, "33", "e4")
		markBroken(another, false)

		cutoff := time.Now().UTC().Add(time.Hour)
		got, err := store.ListBrokenArtworks(ctx, cutoff, 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

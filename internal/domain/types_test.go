package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/artchain-labs/artwork-indexer/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func validTransferEvent() *domain.ContractEvent {
	return &domain.ContractEvent{
		Chain:           domain.ChainEthereumMainnet,
		ContractAddress: "0x1234567890abcdef1234567890abcdef12345678",
		EventType:       domain.EventTypeTransfer,
		TokenNumber:     "42",
		FromAddress:     strPtr("0x1111111111111111111111111111111111111111"),
		ToAddress:       strPtr("0x2222222222222222222222222222222222222222"),
		TxHash:          "0xabc",
		BlockNumber:     100,
		Timestamp:       time.Unix(1700000000, 0),
		TxIndex:         0,
	}
}

func TestContractEvent_Valid(t *testing.T) {
	t.Run("valid transfer", func(t *testing.T) {
		assert.True(t, validTransferEvent().Valid())
	})

	t.Run("invalid chain", func(t *testing.T) {
		event := validTransferEvent()
		event.Chain = "eip155:999"
		assert.False(t, event.Valid())
	})

	t.Run("invalid contract address", func(t *testing.T) {
		event := validTransferEvent()
		event.ContractAddress = "not-an-address"
		assert.False(t, event.Valid())
	})

	t.Run("transfer missing endpoints", func(t *testing.T) {
		event := validTransferEvent()
		event.FromAddress = nil
		assert.False(t, event.Valid())

		event = validTransferEvent()
		event.ToAddress = nil
		assert.False(t, event.Valid())
	})

	t.Run("invalid token number", func(t *testing.T) {
		event := validTransferEvent()
		event.TokenNumber = ""
		assert.False(t, event.Valid())

		event.TokenNumber = "12abc"
		assert.False(t, event.Valid())

		event.TokenNumber = "-5"
		assert.False(t, event.Valid())
	})

	t.Run("token number beyond uint64", func(t *testing.T) {
		event := validTransferEvent()
		event.TokenNumber = "115792089237316195423570985008687907853269984665640564039457584007913129639935"
		assert.True(t, event.Valid())
	})

	t.Run("valid bid", func(t *testing.T) {
		event := validTransferEvent()
		event.EventType = domain.EventTypeBid
		event.Bidder = strPtr("0x3333333333333333333333333333333333333333")
		event.BidAmount = strPtr("1000000000000000000")
		assert.True(t, event.Valid())
	})

	t.Run("bid missing bidder or amount", func(t *testing.T) {
		event := validTransferEvent()
		event.EventType = domain.EventTypeBid
		event.BidAmount = strPtr("100")
		assert.False(t, event.Valid())

		event.Bidder = strPtr("0x3333333333333333333333333333333333333333")
		event.BidAmount = nil
		assert.False(t, event.Valid())

		event.BidAmount = strPtr("1.5")
		assert.False(t, event.Valid())
	})

	t.Run("token scoped events without addresses", func(t *testing.T) {
		for _, eventType := range []domain.EventType{
			domain.EventTypeApproval,
			domain.EventTypeAcceptBid,
			domain.EventTypeCancelBid,
		} {
			event := validTransferEvent()
			event.EventType = eventType
			event.FromAddress = nil
			event.ToAddress = nil
			assert.True(t, event.Valid(), string(eventType))
		}
	})

	t.Run("contract level events without token number", func(t *testing.T) {
		for _, eventType := range []domain.EventType{
			domain.EventTypeApprovalForAll,
			domain.EventTypeOwnershipTransferred,
		} {
			event := validTransferEvent()
			event.EventType = eventType
			event.TokenNumber = ""
			assert.True(t, event.Valid(), string(eventType))
		}
	})

	t.Run("unknown event type", func(t *testing.T) {
		event := validTransferEvent()
		event.EventType = "mystery"
		assert.False(t, event.Valid())
	})
}

func TestContractEvent_IsMintIsBurn(t *testing.T) {
	mint := validTransferEvent()
	mint.FromAddress = strPtr(domain.ETHEREUM_ZERO_ADDRESS)
	assert.True(t, mint.IsMint())
	assert.False(t, mint.IsBurn())

	burn := validTransferEvent()
	burn.ToAddress = strPtr(domain.ETHEREUM_ZERO_ADDRESS)
	assert.True(t, burn.IsBurn())
	assert.False(t, burn.IsMint())

	regular := validTransferEvent()
	assert.False(t, regular.IsMint())
	assert.False(t, regular.IsBurn())

	// Non-transfer events are never mint or burn
	bid := validTransferEvent()
	bid.EventType = domain.EventTypeBid
	bid.FromAddress = strPtr(domain.ETHEREUM_ZERO_ADDRESS)
	assert.False(t, bid.IsMint())
}

func TestIsZeroAddress(t *testing.T) {
	assert.True(t, domain.IsZeroAddress(nil))
	assert.True(t, domain.IsZeroAddress(strPtr("")))
	assert.True(t, domain.IsZeroAddress(strPtr(domain.ETHEREUM_ZERO_ADDRESS)))
	assert.True(t, domain.IsZeroAddress(strPtr("0x0000000000000000000000000000000000000000")))
	assert.False(t, domain.IsZeroAddress(strPtr("0x1111111111111111111111111111111111111111")))
}

func TestNormalizeAddress(t *testing.T) {
	checksummed := "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", domain.NormalizeAddress(checksummed))

	// Already normalized addresses pass through unchanged
	lower := "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
	assert.Equal(t, lower, domain.NormalizeAddress(lower))
}

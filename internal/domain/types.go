package domain

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet || chain == ChainEthereumSepolia
}

// EventType represents the type of contract event
type EventType string

const (
	EventTypeTransfer             EventType = "transfer"
	EventTypeApproval             EventType = "approval"
	EventTypeApprovalForAll       EventType = "approval_for_all"
	EventTypeOwnershipTransferred EventType = "ownership_transferred"
	EventTypeBid                  EventType = "bid"
	EventTypeAcceptBid            EventType = "accept_bid"
	EventTypeCancelBid            EventType = "cancel_bid"
)

// ContractEvent represents a normalized contract event as delivered by the
// upstream event source. Events arrive once, in causal order, per contract.
type ContractEvent struct {
	Chain           Chain     `json:"chain"`                // e.g., "eip155:1"
	ContractAddress string    `json:"contract_address"`     // emitting contract address
	EventType       EventType `json:"event_type"`           // transfer, approval, bid, ...
	TokenNumber     string    `json:"token_number"`         // token ID (decimal string, unbounded)
	FromAddress     *string   `json:"from_address"`         // transfer sender (zero address for mint)
	ToAddress       *string   `json:"to_address"`           // transfer recipient (zero address for burn)
	Bidder          *string   `json:"bidder,omitempty"`     // bidder address (bid events only)
	BidAmount       *string   `json:"bid_amount,omitempty"` // bid amount in wei (decimal string)
	TxHash          string    `json:"tx_hash"`              // transaction hash
	BlockNumber     uint64    `json:"block_number"`         // block number
	Timestamp       time.Time `json:"timestamp"`            // block timestamp
	TxIndex         uint64    `json:"tx_index"`             // transaction index in the block (for ordering)
}

// Valid performs structural validation of the event
func (e *ContractEvent) Valid() bool {
	if !IsValidChain(e.Chain) {
		return false
	}
	if !common.IsHexAddress(e.ContractAddress) {
		return false
	}

	switch e.EventType {
	case EventTypeTransfer:
		// Both endpoints must be present; zero addresses encode mint/burn
		if e.FromAddress == nil || e.ToAddress == nil {
			return false
		}
		if !common.IsHexAddress(*e.FromAddress) || !common.IsHexAddress(*e.ToAddress) {
			return false
		}
	case EventTypeBid:
		if e.Bidder == nil || !common.IsHexAddress(*e.Bidder) {
			return false
		}
		if e.BidAmount == nil || !validAmount(*e.BidAmount) {
			return false
		}
	case EventTypeApproval, EventTypeAcceptBid, EventTypeCancelBid:
		// token-scoped events carry no addresses
	case EventTypeApprovalForAll, EventTypeOwnershipTransferred:
		// contract-level events; no token number required
		return true
	default:
		return false
	}

	return validTokenNumber(e.TokenNumber)
}

// IsMint reports whether the event is a transfer from the zero address
func (e *ContractEvent) IsMint() bool {
	return e.EventType == EventTypeTransfer && IsZeroAddress(e.FromAddress)
}

// IsBurn reports whether the event is a transfer to the zero address
func (e *ContractEvent) IsBurn() bool {
	return e.EventType == EventTypeTransfer && IsZeroAddress(e.ToAddress)
}

// IsZeroAddress reports whether the address is nil, empty, or the reserved null address
func IsZeroAddress(address *string) bool {
	return address == nil || *address == "" || NormalizeAddress(*address) == ETHEREUM_ZERO_ADDRESS
}

// NormalizeAddress normalizes an Ethereum address to its canonical
// lower-case hex form, which is used as the account identifier
func NormalizeAddress(address string) string {
	return strings.ToLower(common.HexToAddress(address).Hex())
}

// validTokenNumber checks the token number is a non-negative decimal integer
func validTokenNumber(tokenNumber string) bool {
	if tokenNumber == "" {
		return false
	}
	n, ok := new(big.Int).SetString(tokenNumber, 10)
	return ok && n.Sign() >= 0
}

// validAmount checks the amount is a non-negative decimal integer
func validAmount(amount string) bool {
	if amount == "" {
		return false
	}
	n, ok := new(big.Int).SetString(amount, 10)
	return ok && n.Sign() >= 0
}

package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/artchain-labs/artwork-indexer/internal/adapter"
)

// tokenURIJSON is the minimal ABI fragment for the ERC721 tokenURI view call
const tokenURIJSON = `[{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"}]`

// Reader reads current contract state needed during reconciliation
//
//go:generate mockgen -source=reader.go -destination=../mocks/contract_reader.go -package=mocks -mock_names=Reader=MockContractReader
type Reader interface {
	// TokenURI returns the current metadata locator for a token.
	// An empty string means the contract reports no locator.
	TokenURI(ctx context.Context, contractAddress string, tokenNumber string) (string, error)
}

type reader struct {
	client adapter.EthClient
}

// NewReader creates a contract state reader backed by an Ethereum client
func NewReader(client adapter.EthClient) Reader {
	return &reader{client: client}
}

func (r *reader) TokenURI(ctx context.Context, contractAddress string, tokenNumber string) (string, error) {
	tokenURIABI, err := abi.JSON(strings.NewReader(tokenURIJSON))
	if err != nil {
		return "", fmt.Errorf("failed to parse ABI: %w", err)
	}

	tokenID, ok := new(big.Int).SetString(tokenNumber, 10)
	if !ok {
		return "", fmt.Errorf("invalid token number: %s", tokenNumber)
	}

	data, err := tokenURIABI.Pack("tokenURI", tokenID)
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	contractAddr := common.HexToAddress(contractAddress)
	result, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call contract: %w", err)
	}

	var uri string
	if err := tokenURIABI.UnpackIntoInterface(&uri, "tokenURI", result); err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}

	return uri, nil
}

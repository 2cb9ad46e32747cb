package ipfs

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/artchain-labs/artwork-indexer/internal/adapter"
	"github.com/artchain-labs/artwork-indexer/internal/domain"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
)

// CIDPrefix is the reserved prefix of supported content identifiers (CIDv0)
const CIDPrefix = "Qm"

// ExtractCID returns the trailing path segment of a URI-like locator if it
// looks like a supported content-addressed identifier, else the empty string.
// Pure, total: any input (including gateway URLs, ipfs:// URIs, and bare
// hashes) yields either a CID or "".
func ExtractCID(locator string) string {
	if locator == "" {
		return ""
	}

	segments := strings.Split(locator, "/")
	last := segments[len(segments)-1]
	if strings.HasPrefix(last, CIDPrefix) {
		return last
	}

	return ""
}

// GatewayURL returns the canonical gateway URL embedding the content id
func GatewayURL(cid string) string {
	return fmt.Sprintf("%s/ipfs/%s", domain.DEFAULT_IPFS_GATEWAY, cid)
}

// Fetcher defines the interface for fetching content-addressed documents
//
//go:generate mockgen -source=ipfs.go -destination=../mocks/ipfs_fetcher.go -package=mocks -mock_names=Fetcher=MockFetcher
type Fetcher interface {
	// Cat fetches the raw bytes referenced by a content id.
	// It returns an error when no configured gateway can serve the document.
	Cat(ctx context.Context, cid string) ([]byte, error)
}

type fetcher struct {
	httpClient adapter.HTTPClient
	gateways   []string
}

// NewFetcher creates a gateway-backed content fetcher
func NewFetcher(httpClient adapter.HTTPClient, gateways []string) Fetcher {
	return &fetcher{
		httpClient: httpClient,
		gateways:   gateways,
	}
}

func (f *fetcher) Cat(ctx context.Context, cid string) ([]byte, error) {
	if len(f.gateways) == 0 {
		return nil, fmt.Errorf("no IPFS gateways configured")
	}

	var lastErr error
	for _, gateway := range f.gateways {
		url := fmt.Sprintf("%s/ipfs/%s", gateway, cid)
		data, err := f.httpClient.GetRaw(ctx, url)
		if err != nil {
			logger.DebugCtx(ctx, "IPFS gateway miss", zap.String("url", url), zap.Error(err))
			lastErr = err
			continue
		}
		return data, nil
	}

	return nil, fmt.Errorf("failed to fetch %s from all IPFS gateways: %w", cid, lastErr)
}

package metadata

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gowebpki/jcs"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/artchain-labs/artwork-indexer/internal/adapter"
	"github.com/artchain-labs/artwork-indexer/internal/ipfs"
	"github.com/artchain-labs/artwork-indexer/internal/logger"
	"github.com/artchain-labs/artwork-indexer/internal/store/schema"
)

// Resolver enriches an artwork from its content-addressed metadata document.
//
// Every sub-step degrades gracefully to "field left unset" rather than
// aborting the whole resolution; the only hard failure signal is
// Broken = true, reserved for the case where no content id could be derived
// from the locator at all.
//
//go:generate mockgen -source=resolver.go -destination=../mocks/metadata_resolver.go -package=mocks -mock_names=Resolver=MockMetadataResolver
type Resolver interface {
	// Resolve extracts a content id from the locator, fetches and parses the
	// referenced document, and copies the recognized fields onto the artwork.
	// Mutates the artwork in place; never fails.
	Resolve(ctx context.Context, artwork *schema.Artwork, locator string)
}

type resolver struct {
	fetcher    ipfs.Fetcher
	httpClient adapter.HTTPClient
	json       adapter.JSON
}

// NewResolver creates a metadata resolver
func NewResolver(fetcher ipfs.Fetcher, httpClient adapter.HTTPClient, jsonAdapter adapter.JSON) Resolver {
	return &resolver{
		fetcher:    fetcher,
		httpClient: httpClient,
		json:       jsonAdapter,
	}
}

// fieldRule copies one recognized optional field from the parsed document
// onto the artwork. Rules run in order; later rules win on shared targets
// (animation_url overrides image for the media URI).
type fieldRule struct {
	key   string
	apply func(item *schema.Artwork, value interface{})
}

var fieldRules = []fieldRule{
	{"name", func(item *schema.Artwork, v interface{}) {
		if s, ok := v.(string); ok {
			item.Name = &s
		}
	}},
	{"description", func(item *schema.Artwork, v interface{}) {
		if s, ok := v.(string); ok {
			item.Description = &s
		}
	}},
	{"image", applyMediaURI},
	{"animation_url", applyMediaURI},
	{"media", func(item *schema.Artwork, v interface{}) {
		media, ok := v.(map[string]interface{})
		if !ok {
			return
		}
		if s, ok := media["mimeType"].(string); ok {
			item.MimeType = &s
		}
		if f, ok := media["size"].(float64); ok && f == math.Trunc(f) {
			size := strconv.FormatFloat(f, 'f', -1, 64)
			item.Size = &size
		}
	}},
	{"tags", func(item *schema.Artwork, v interface{}) {
		raw, ok := v.([]interface{})
		if !ok {
			return
		}
		tags := make(schema.Tags, 0, len(raw))
		for _, t := range raw {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		item.Tags = tags
		if len(tags) > 0 {
			joined := strings.Join(tags, " ")
			item.TagsString = &joined
		}
	}},
}

// applyMediaURI sets the media URI and recomputes the media hash from it
func applyMediaURI(item *schema.Artwork, v interface{}) {
	s, ok := v.(string)
	if !ok {
		return
	}
	item.MediaURI = &s
	if cid := ipfs.ExtractCID(s); cid != "" {
		item.MediaHash = &cid
	} else {
		item.MediaHash = nil
	}
}

func (r *resolver) Resolve(ctx context.Context, item *schema.Artwork, locator string) {
	cid := ipfs.ExtractCID(locator)
	if cid == "" {
		// Keep the raw locator on record so later retries (and operators)
		// can see what failed to resolve
		item.MetadataURI = &locator
		item.Broken = true
		return
	}

	uri := ipfs.GatewayURL(cid)
	item.MetadataURI = &uri
	item.MetadataHash = &cid

	raw, err := r.fetcher.Cat(ctx, cid)
	if err != nil || len(raw) == 0 {
		// Unfetchable is not unresolvable: keep the prior broken value
		logger.WarnCtx(ctx, "metadata document unavailable", zap.String("artwork", item.ID), zap.String("cid", cid), zap.Error(err))
		return
	}

	var doc map[string]interface{}
	if err := r.json.Unmarshal(raw, &doc); err != nil || doc == nil {
		// Partial success is the norm: a malformed or non-object document
		// leaves the URI/hash rewrite in place and nothing else
		logger.WarnCtx(ctx, "metadata document not an object", zap.String("artwork", item.ID), zap.String("cid", cid))
		return
	}

	item.RawMetadata = datatypes.JSON(raw)
	if digest := canonicalDigest(raw); digest != "" {
		item.MetadataDigest = &digest
	}

	for _, rule := range fieldRules {
		if v, ok := doc[rule.key]; ok {
			rule.apply(item, v)
		}
	}

	// Fall back to sniffing when the document declares no MIME type
	if item.MimeType == nil && item.MediaURI != nil {
		item.MimeType = r.sniffMimeType(ctx, *item.MediaURI)
	}
}

// canonicalDigest returns the hex SHA-256 of the JCS-canonicalized document,
// or "" when the document cannot be canonicalized
func canonicalDigest(raw []byte) string {
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(canonical)
	return hex.EncodeToString(hash[:])
}

// sniffMimeType detects the media MIME type from the first bytes of the
// referenced content. Returns nil when the content is unreachable.
func (r *resolver) sniffMimeType(ctx context.Context, mediaURI string) *string {
	url := mediaURI
	if cid := ipfs.ExtractCID(mediaURI); cid != "" {
		url = ipfs.GatewayURL(cid)
	} else if !strings.HasPrefix(mediaURI, "http://") && !strings.HasPrefix(mediaURI, "https://") {
		return nil
	}

	const maxBytes = 512
	content, err := r.httpClient.GetPartialContent(ctx, url, maxBytes)
	if err != nil {
		logger.DebugCtx(ctx, "failed to fetch media for mime detection", zap.String("url", url), zap.Error(err))
		return nil
	}

	mtype := mimetype.Detect(content)
	if mtype == nil {
		return nil
	}

	s := mtype.String()
	return &s
}

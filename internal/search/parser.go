// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/poigate/internal/logging"
)

// Mode is how a free-text query is applied.
type Mode string

const (
	// ModeType restricts results to matching POI types.
	ModeType Mode = "type"
	// ModeName runs a fuzzy name search.
	ModeName Mode = "name"
)

// Parsed is the interpretation of a free-text query.
type Parsed struct {
	Mode                    Mode     `json:"mode"`
	TypeKeys                []string `json:"type_keys,omitempty"`
	NameSearch              string   `json:"name_search,omitempty"`
	NameSimilarityThreshold float64  `json:"name_similarity_threshold,omitempty"`
	Display                 string   `json:"display"`
	OriginalQuery           string   `json:"original_query"`
	FromCache               bool     `json:"-"`
}

// TypeFinder looks up POI type keys.
type TypeFinder interface {
	// TypesBySynonym returns active types whose detection keywords contain word.
	TypesBySynonym(ctx context.Context, word, lang string) ([]string, error)
	// TypesByLabel returns up to 10 active types whose label contains query.
	TypesByLabel(ctx context.Context, query, lang string) ([]string, error)
}

// ByteCache is the subset of a response cache the parser needs.
type ByteCache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// Parser resolves free-text queries to type or name mode.
type Parser struct {
	finder TypeFinder
	cache  ByteCache
}

// NewParser creates a parser. cache may be nil.
func NewParser(finder TypeFinder, cache ByteCache) *Parser {
	return &Parser{finder: finder, cache: cache}
}

// Parse validates and interprets q. Only validation failures return an error;
// type lookup failures fall back to name mode and are not cached.
func (p *Parser) Parse(ctx context.Context, q, lang string) (*Parsed, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}
	original := strings.TrimSpace(q)
	normalized := NormalizeQuery(original)
	key := fmt.Sprintf("parse:%s:%s", lang, normalized)

	if p.cache != nil {
		if raw, ok := p.cache.Get(key); ok {
			var cached Parsed
			if err := json.Unmarshal(raw, &cached); err == nil {
				cached.FromCache = true
				return &cached, nil
			}
		}
	}

	parsed, lookupFailed := p.parseNameOrType(ctx, original, normalized, lang)

	if p.cache != nil && !lookupFailed {
		if raw, err := json.Marshal(parsed); err == nil {
			p.cache.Set(key, raw)
		}
	}
	return parsed, nil
}

func (p *Parser) parseNameOrType(ctx context.Context, original, normalized, lang string) (*Parsed, bool) {
	keys, failed := p.matchTypes(ctx, normalized, lang)
	if len(keys) > 0 {
		return &Parsed{
			Mode:          ModeType,
			TypeKeys:      keys,
			Display:       original,
			OriginalQuery: original,
		}, failed
	}

	display := fmt.Sprintf("POIs nommés %q", original)
	if lang == "en" {
		display = fmt.Sprintf("POIs named %q", original)
	}
	return &Parsed{
		Mode:                    ModeName,
		NameSearch:              original,
		NameSimilarityThreshold: SimilarityThreshold(normalized),
		Display:                 display,
		OriginalQuery:           original,
	}, failed
}

// matchTypes tries synonyms first, then labels.
func (p *Parser) matchTypes(ctx context.Context, normalized, lang string) ([]string, bool) {
	if p.finder == nil {
		return nil, false
	}
	failed := false

	keys, err := p.finder.TypesBySynonym(ctx, normalized, lang)
	if err != nil {
		failed = true
		logging.CtxWarn(ctx).Err(err).Str("query", normalized).Msg("Type synonym lookup failed")
	}
	if len(keys) > 0 {
		return keys, failed
	}

	keys, err = p.finder.TypesByLabel(ctx, normalized, lang)
	if err != nil {
		failed = true
		logging.CtxWarn(ctx).Err(err).Str("query", normalized).Msg("Type label lookup failed")
	}
	return keys, failed
}

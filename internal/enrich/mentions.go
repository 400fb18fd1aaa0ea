// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package enrich

import (
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/poigate/internal/models"
)

const (
	faviconService = "https://www.google.com/s2/favicons"
	// faviconPlaceholder stands in for domains whose favicon must not be shown.
	faviconPlaceholder = "news.google.com"
)

var faviconBlacklist = []string{"michelin"}

// FaviconURL returns the 64px favicon URL for domain.
func FaviconURL(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	for _, kw := range faviconBlacklist {
		if strings.Contains(d, kw) {
			d = faviconPlaceholder
			break
		}
	}
	return faviconService + "?domain=" + url.QueryEscape(d) + "&sz=64"
}

// MentionSample is one source shown on a card.
type MentionSample struct {
	Domain  string  `json:"domain"`
	Favicon string  `json:"favicon"`
	URL     *string `json:"url"`
	Title   *string `json:"title"`
}

// MentionSummary is the per-POI mention aggregate.
type MentionSummary struct {
	// SourcesCount is the number of distinct domains.
	SourcesCount int
	Samples      []MentionSample
}

// MentionDetail is a mention rendered on the detail page.
type MentionDetail struct {
	Domain      string     `json:"domain"`
	Favicon     string     `json:"favicon"`
	Title       *string    `json:"title"`
	Excerpt     *string    `json:"excerpt"`
	URL         *string    `json:"url"`
	PublishedAt *time.Time `json:"published_at"`
}

// summarizeMentions keeps one sample per distinct domain, in arrival order.
func summarizeMentions(rows []models.Mention) map[string]MentionSummary {
	seen := make(map[string]map[string]struct{})
	out := make(map[string]MentionSummary)
	for _, m := range rows {
		if m.Domain == "" {
			continue
		}
		domains, ok := seen[m.POIID]
		if !ok {
			domains = make(map[string]struct{})
			seen[m.POIID] = domains
		}
		if _, dup := domains[m.Domain]; dup {
			continue
		}
		domains[m.Domain] = struct{}{}

		s := out[m.POIID]
		s.SourcesCount++
		s.Samples = append(s.Samples, MentionSample{
			Domain:  m.Domain,
			Favicon: FaviconURL(m.Domain),
			URL:     m.URL,
			Title:   m.Title,
		})
		out[m.POIID] = s
	}
	return out
}

func mentionDetails(rows []models.Mention) []MentionDetail {
	out := make([]MentionDetail, 0, len(rows))
	for _, m := range rows {
		out = append(out, MentionDetail{
			Domain:      m.Domain,
			Favicon:     FaviconURL(m.Domain),
			Title:       m.Title,
			Excerpt:     m.Excerpt,
			URL:         m.URL,
			PublishedAt: m.PublishedAtGuess,
		})
	}
	return out
}

// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package enrich

import (
	"sort"
	"strings"

	"github.com/tomtom215/poigate/internal/models"
)

// Variant is one renderable source of a photo block.
type Variant struct {
	VariantKey string `json:"variant_key,omitempty"`
	Format     string `json:"format"`
	URL        string `json:"url"`
	Width      *int   `json:"width"`
	Height     *int   `json:"height"`
}

// PhotoBlock is a photo ready for a <picture> element.
type PhotoBlock struct {
	Variants      []Variant `json:"variants"`
	Width         *int      `json:"width"`
	Height        *int      `json:"height"`
	DominantColor *string   `json:"dominant_color"`
	Blurhash      *string   `json:"blurhash"`
}

var formatRank = map[string]int{"avif": 0, "webp": 1, "jpg": 2}

func rankOf(format string) int {
	if r, ok := formatRank[format]; ok {
		return r
	}
	return len(formatRank)
}

// ExpandVariantKeys turns bare keys into their @1x and @2x densities.
// Keys that already name a density are kept. Order is preserved.
func ExpandVariantKeys(keys []string) []string {
	out := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		if strings.Contains(k, "@") {
			out = append(out, k)
			continue
		}
		out = append(out, k+"@1x", k+"@2x")
	}
	return out
}

// groupPhotos groups photos by POI, dropping repeated photo ids, and indexes
// their embedded variants by photo id.
func groupPhotos(photos []models.Photo) (map[string][]models.Photo, map[string][]models.PhotoVariant) {
	byPOI := make(map[string][]models.Photo)
	variants := make(map[string][]models.PhotoVariant)
	for _, p := range photos {
		if _, seen := variants[p.ID]; seen {
			continue
		}
		vs := make([]models.PhotoVariant, len(p.Variants))
		copy(vs, p.Variants)
		variants[p.ID] = vs
		byPOI[p.POIID] = append(byPOI[p.POIID], p)
	}
	return byPOI, variants
}

// PrimaryPhoto returns the photo flagged primary, else the first one.
func PrimaryPhoto(photos []models.Photo) *models.Photo {
	for i := range photos {
		if photos[i].IsPrimary {
			return &photos[i]
		}
	}
	if len(photos) > 0 {
		return &photos[0]
	}
	return nil
}

// PhotoBlockFrom builds the block for photo using the variants whose key
// starts with prefix, ordered by key then avif, webp, jpg. A photo without
// matching variants falls back to its master file; nil when there is none.
func PhotoBlockFrom(variants map[string][]models.PhotoVariant, photo *models.Photo, prefix string) *PhotoBlock {
	if photo == nil {
		return nil
	}

	var matched []models.PhotoVariant
	for _, v := range variants[photo.ID] {
		if strings.HasPrefix(v.VariantKey, prefix) {
			matched = append(matched, v)
		}
	}

	if len(matched) == 0 {
		if photo.CDNURL == nil || *photo.CDNURL == "" {
			return nil
		}
		format := "jpg"
		if photo.Format != nil && *photo.Format != "" {
			format = *photo.Format
		}
		return &PhotoBlock{
			Variants: []Variant{{
				Format: format,
				URL:    *photo.CDNURL,
				Width:  photo.Width,
				Height: photo.Height,
			}},
			Width:         photo.Width,
			Height:        photo.Height,
			DominantColor: photo.DominantColor,
			Blurhash:      photo.Blurhash,
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].VariantKey != matched[j].VariantKey {
			return matched[i].VariantKey < matched[j].VariantKey
		}
		return rankOf(matched[i].Format) < rankOf(matched[j].Format)
	})

	block := &PhotoBlock{
		Variants:      make([]Variant, 0, len(matched)),
		Width:         photo.Width,
		Height:        photo.Height,
		DominantColor: photo.DominantColor,
		Blurhash:      photo.Blurhash,
	}
	for _, v := range matched {
		block.Variants = append(block.Variants, Variant{
			VariantKey: v.VariantKey,
			Format:     v.Format,
			URL:        v.CDNURL,
			Width:      v.Width,
			Height:     v.Height,
		})
	}
	if block.Width == nil {
		block.Width = matched[0].Width
	}
	if block.Height == nil {
		block.Height = matched[0].Height
	}
	return block
}

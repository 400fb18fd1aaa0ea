// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key builds the cache key for a parameter set: family + ":" + hex(SHA-256)
// of the canonical form. The canonical form sorts parameter names, omits nil
// and empty values, and sorts multi-valued parameters so the order a client
// sends them in does not matter.
//
//	key := cache.Key(cache.FamilyPOIs, map[string]any{"city": "paris", "limit": 50})
func Key(family string, params map[string]any) string {
	names := make([]string, 0, len(params))
	values := make(map[string]string, len(params))
	for name, v := range params {
		s, ok := canonical(v)
		if !ok {
			continue
		}
		names = append(names, name)
		values[name] = s
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(values[name])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return family + ":" + hex.EncodeToString(sum[:])
}

// canonical renders one value; ok is false when the value should be omitted.
func canonical(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case *string:
		if x == nil || *x == "" {
			return "", false
		}
		return *x, true
	case []string:
		if len(x) == 0 {
			return "", false
		}
		sorted := append([]string(nil), x...)
		sort.Strings(sorted)
		return strings.Join(sorted, ","), true
	case bool:
		return strconv.FormatBool(x), true
	case *bool:
		if x == nil {
			return "", false
		}
		return strconv.FormatBool(*x), true
	case int:
		return strconv.Itoa(x), true
	case *int:
		if x == nil {
			return "", false
		}
		return strconv.Itoa(*x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case *float64:
		if x == nil {
			return "", false
		}
		return strconv.FormatFloat(*x, 'f', -1, 64), true
	default:
		s := fmt.Sprint(x)
		return s, s != ""
	}
}

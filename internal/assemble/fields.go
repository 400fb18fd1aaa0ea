// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package assemble

import (
	"fmt"

	"github.com/goccy/go-json"
)

// alwaysKept survive every allowlist.
var alwaysKept = []string{"id", "slug", "name"}

// FilterFields reduces item to the identity keys plus the allowlisted keys it
// actually has. A nil allowlist returns item unchanged.
func FilterFields(item any, allow []string) (any, error) {
	if allow == nil {
		return item, nil
	}

	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("marshal item: %w", err)
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}

	out := make(map[string]json.RawMessage, len(alwaysKept)+len(allow))
	for _, k := range alwaysKept {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	for _, k := range allow {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// FilterItems applies FilterFields to every item.
func FilterItems(items []*Item, allow []string) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		v, err := FilterFields(it, allow)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

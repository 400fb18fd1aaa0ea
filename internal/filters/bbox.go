// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package filters

import (
	"math"
	"strconv"
	"strings"
)

// BBox is a geographic bounding box. LatMin < LatMax and LngMin < LngMax always hold
// for values returned by ParseBBox.
type BBox struct {
	LatMin float64
	LngMin float64
	LatMax float64
	LngMax float64
}

// ParseBBox parses "lat_min,lng_min,lat_max,lng_max".
func ParseBBox(raw string) *BBox {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return nil
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		v[i] = f
	}
	b := BBox{LatMin: v[0], LngMin: v[1], LatMax: v[2], LngMax: v[3]}
	if !b.valid() {
		return nil
	}
	return &b
}

func (b BBox) valid() bool {
	if b.LatMin < -90 || b.LatMax > 90 || b.LngMin < -180 || b.LngMax > 180 {
		return false
	}
	return b.LatMin < b.LatMax && b.LngMin < b.LngMax
}

// Array returns the box in backend order.
func (b BBox) Array() []float64 {
	return []float64{b.LatMin, b.LngMin, b.LatMax, b.LngMax}
}

// String serialises the box in the same format ParseBBox reads.
func (b BBox) String() string {
	parts := make([]string, 4)
	for i, f := range b.Array() {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

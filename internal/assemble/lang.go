// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

// Package assemble turns backend rows and enrichment maps into response items.
//
// Builders are pure: they read a row and an enrich.Result and return a new
// value. Nothing here talks to the backend.
package assemble

// Supported languages. The first one is the default.
const (
	LangFR = "fr"
	LangEN = "en"
)

// Langs lists the supported languages.
var Langs = []string{LangFR, LangEN}

// OtherLang returns the other supported language.
func OtherLang(lang string) string {
	if lang == LangEN {
		return LangFR
	}
	return LangEN
}

// NormalizeLang maps anything unsupported to the default language.
func NormalizeLang(lang string) string {
	if lang == LangEN {
		return LangEN
	}
	return LangFR
}

// PickLang resolves a multilingual column: base_<lang>, then the other
// language, then the unsuffixed legacy column. Empty strings count as absent.
func PickLang(fields map[string]*string, lang, base string) *string {
	lang = NormalizeLang(lang)
	for _, col := range []string{base + "_" + lang, base + "_" + OtherLang(lang), base} {
		if v := fields[col]; v != nil && *v != "" {
			return v
		}
	}
	return nil
}

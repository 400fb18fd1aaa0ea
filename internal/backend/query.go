// Poigate - Points of Interest Read API Gateway
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/poigate

package backend

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds PostgREST horizontal and vertical filters for a table read.
//
//	q := NewQuery("id,slug_fr").Eq("publishable_status", "eligible").Order("updated_at", true).Limit(500)
type Query struct {
	values url.Values
	order  []string
	count  bool
}

// NewQuery starts a query selecting columns ("*" when empty).
func NewQuery(columns string) *Query {
	if columns == "" {
		columns = "*"
	}
	q := &Query{values: url.Values{}}
	q.values.Set("select", columns)
	return q
}

// Eq adds column=eq.value.
func (q *Query) Eq(column, value string) *Query {
	q.values.Add(column, "eq."+value)
	return q
}

// In adds column=in.("a","b"). Values are quoted so commas and parentheses
// inside them are safe.
func (q *Query) In(column string, values []string) *Query {
	q.values.Add(column, "in.("+quoteList(values)+")")
	return q
}

// Contains adds column=cs.{"a","b"} for array columns.
func (q *Query) Contains(column string, values []string) *Query {
	q.values.Add(column, "cs.{"+quoteList(values)+"}")
	return q
}

// ILike adds a case-insensitive substring match.
func (q *Query) ILike(column, substring string) *Query {
	q.values.Add(column, "ilike.*"+substring+"*")
	return q
}

// Or adds or=(cond1,cond2,...). Conditions use PostgREST syntax, e.g.
// "slug_fr.eq.le-comptoir".
func (q *Query) Or(conditions ...string) *Query {
	q.values.Add("or", "("+strings.Join(conditions, ",")+")")
	return q
}

// Order appends an ordering term. Descending terms put nulls last.
func (q *Query) Order(column string, desc bool) *Query {
	if desc {
		q.order = append(q.order, column+".desc.nullslast")
	} else {
		q.order = append(q.order, column+".asc")
	}
	return q
}

// Limit caps the number of rows.
func (q *Query) Limit(n int) *Query {
	q.values.Set("limit", strconv.Itoa(n))
	return q
}

// Offset skips n rows.
func (q *Query) Offset(n int) *Query {
	if n > 0 {
		q.values.Set("offset", strconv.Itoa(n))
	}
	return q
}

// CountExact asks PostgREST for the exact total row count.
func (q *Query) CountExact() *Query {
	q.count = true
	return q
}

// Encode renders the query string.
func (q *Query) Encode() string {
	v := url.Values{}
	for k, vals := range q.values {
		v[k] = append([]string(nil), vals...)
	}
	if len(q.order) > 0 {
		v.Set("order", strings.Join(q.order, ","))
	}
	return v.Encode()
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ",")
}

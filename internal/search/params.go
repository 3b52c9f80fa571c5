// Package search defines the listing parameter contract shared by every
// listing surface. The contract is permissive on input: malformed or
// out-of-range values fall back to their defaults instead of failing the
// query. The canonical (default-applied, stably ordered) form doubles as
// the cache key.
package search

import (
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// Params holds pagination plus the domain filters common to hotel, room,
// booking and discount listings. Zero values mean "not filtered" and are
// omitted from the canonical form.
type Params struct {
	Page     int `url:"page"`
	PageSize int `url:"pageSize"`

	Term     string `url:"term,omitempty"`
	Province string `url:"province,omitempty"`
	Stars    int    `url:"stars,omitempty"`
	MinPrice int64  `url:"minPrice,omitempty"`
	MaxPrice int64  `url:"maxPrice,omitempty"`
	Capacity int    `url:"capacity,omitempty"`
	Status   string `url:"status,omitempty"`
	Active   *bool  `url:"active,omitempty"`
}

// FromQuery coerces an arbitrary URL query into Params. Individual bad
// numeric fields default silently; this never errors.
func FromQuery(q url.Values) Params {
	p := Params{
		Page:     positiveInt(q.Get("page"), DefaultPage),
		PageSize: positiveInt(q.Get("pageSize"), DefaultPageSize),
		Term:     q.Get("term"),
		Province: q.Get("province"),
		Stars:    nonNegativeInt(q.Get("stars")),
		MinPrice: nonNegativeInt64(q.Get("minPrice")),
		MaxPrice: nonNegativeInt64(q.Get("maxPrice")),
		Capacity: nonNegativeInt(q.Get("capacity")),
		Status:   q.Get("status"),
	}
	if raw := q.Get("active"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			p.Active = &b
		}
	}
	return p
}

// Normalize applies defaults to out-of-range pagination fields. Safe to
// call repeatedly.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// Canonical renders the normalized, key-order-stable query string used as a
// cache key. Two parameter sets that differ only in construction order
// produce identical canonical forms.
func (p Params) Canonical() string {
	v, err := query.Values(p.Normalize())
	if err != nil {
		// Params is a flat struct of encodable fields; Values cannot
		// fail on it. Keep the fallback total anyway.
		return "page=1&pageSize=10"
	}
	return v.Encode()
}

// Values returns the normalized parameters as a URL query for the gateway.
func (p Params) Values() url.Values {
	v, err := query.Values(p.Normalize())
	if err != nil {
		return url.Values{}
	}
	return v
}

// CacheKey joins a resource namespace with the canonical form.
func CacheKey(namespace string, p Params) string {
	return namespace + "?" + p.Canonical()
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func nonNegativeInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func nonNegativeInt64(raw string) int64 {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

package testrail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Pagination defaults applied when the caller leaves Limit/Offset unset.
const (
	DefaultLimit  = 50
	DefaultOffset = 0
)

// ListOptions carries the pagination parameters shared by list endpoints.
// A zero Limit means DefaultLimit.
type ListOptions struct {
	Limit  int
	Offset int
}

// values returns limit/offset with the caller's values spliced over the defaults.
func (o ListOptions) values() url.Values {
	limit := DefaultLimit
	if o.Limit > 0 {
		limit = o.Limit
	}
	offset := DefaultOffset
	if o.Offset > 0 {
		offset = o.Offset
	}
	return url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
}

// Links holds the envelope's navigation links; nil means no further page.
type Links struct {
	Next *string `json:"next"`
	Prev *string `json:"prev"`
}

// Pagination is the envelope TestRail wraps around list responses.
type Pagination struct {
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Size   int   `json:"size"`
	Links  Links `json:"_links"`
}

// HasMore reports whether the service advertised a next page.
func (p Pagination) HasMore() bool {
	return p.Links.Next != nil && *p.Links.Next != ""
}

// decodePage decodes a list response. The items live under key in the
// envelope; a bare JSON array is accepted too, in which case the envelope is
// synthesized from the request. Failures are classified and logged through c.
func decodePage[T any](c *BaseClient, raw json.RawMessage, key string, opts ListOptions) (Pagination, []T, error) {
	page, items, err := parsePage[T](raw, key, opts)
	if err != nil {
		return Pagination{}, nil, c.classify(err)
	}
	return page, items, nil
}

func parsePage[T any](raw json.RawMessage, key string, opts ListOptions) (Pagination, []T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Pagination{}, nil, fmt.Errorf("failed to parse %s: %w", key, err)
		}
		v := opts.values()
		limit, _ := strconv.Atoi(v.Get("limit"))
		offset, _ := strconv.Atoi(v.Get("offset"))
		return Pagination{Offset: offset, Limit: limit, Size: len(items)}, items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return Pagination{}, nil, fmt.Errorf("failed to parse %s: %w", key, err)
	}

	var page Pagination
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return Pagination{}, nil, fmt.Errorf("failed to parse pagination: %w", err)
	}

	var items []T
	if data, ok := envelope[key]; ok {
		if err := json.Unmarshal(data, &items); err != nil {
			return Pagination{}, nil, fmt.Errorf("failed to parse %s: %w", key, err)
		}
	}
	return page, items, nil
}

// decodeList decodes a response that should be a bare array but may come
// wrapped in an envelope under key.
func decodeList[T any](c *BaseClient, raw json.RawMessage, key string) ([]T, error) {
	_, items, err := decodePage[T](c, raw, key, ListOptions{})
	return items, err
}

// filterValues collects optional query filters, skipping unset ones.
type filterValues url.Values

func (f filterValues) setInt(key string, v int) {
	if v != 0 {
		url.Values(f).Set(key, strconv.Itoa(v))
	}
}

func (f filterValues) setInts(key string, vs []int) {
	if len(vs) == 0 {
		return
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	url.Values(f).Set(key, strings.Join(parts, ","))
}

func (f filterValues) setBool(key string, v *bool) {
	if v == nil {
		return
	}
	if *v {
		url.Values(f).Set(key, "1")
	} else {
		url.Values(f).Set(key, "0")
	}
}

func (f filterValues) setTime(key string, t time.Time) {
	if !t.IsZero() {
		url.Values(f).Set(key, strconv.FormatInt(t.Unix(), 10))
	}
}

func (f filterValues) setString(key, v string) {
	if v != "" {
		url.Values(f).Set(key, v)
	}
}

// urlValues converts back for withQuery
func (f filterValues) urlValues() url.Values {
	return url.Values(f)
}

// listQuery starts a query with the pagination defaults applied.
func listQuery(opts ListOptions) filterValues {
	return filterValues(opts.values())
}

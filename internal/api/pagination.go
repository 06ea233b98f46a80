// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"math"
	"net/http"
	"strconv"
)

// maxRowOffset bounds page*limit so OFFSET stays a valid Postgres integer.
const maxRowOffset = math.MaxInt32

// Pagination describes one page of a list response.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// pageParams is a parsed page/limit pair.
type pageParams struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p pageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination builds the response block for total rows.
func (p pageParams) Pagination(total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		CurrentPage:  p.Page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: p.Limit,
	}
}

// parsePage reads page and limit from the query string. Missing or invalid
// values fall back to page 1 and defaultLimit; limit is capped at maxLimit
// and page is capped so the offset cannot overflow.
func parsePage(r *http.Request, defaultLimit, maxLimit int) pageParams {
	p := pageParams{
		Page:  getIntParam(r, "page", 1),
		Limit: getIntParam(r, "limit", defaultLimit),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	p.Limit = min(p.Limit, maxRowOffset)
	p.Page = min(p.Page, maxRowOffset/p.Limit)
	return p
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// Copyright 2026 The Rolegate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pager

import (
	"errors"
	"fmt"
	"strings"
)

// MaxPageSize caps how many items a single page may carry.
const MaxPageSize = 100

// DefaultPageSize is used when a list request names no page size.
const DefaultPageSize = 10

var (
	ErrPageTooLarge = errors.New("requested page size exceeds the maximum of 100")
	ErrInvalidPage  = errors.New("page number and page size must be positive")
)

// Links holds the navigation links of one page
type Links struct {
	Base string `json:"base"`
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// Page is one slice of a larger result set
type Page[T any] struct {
	Links      Links `json:"_links"`
	PageSize   int   `json:"pageSize"`
	PageNumber int   `json:"pageNumber"`
	Results    []T   `json:"results"`
}

// Paginate slices items down to the requested page and builds navigation
// links against baseURL, discarding any query string baseURL already
// carries. The next link is a heuristic "there might be more" signal: it is
// present whenever the page came back full, so it can point one page past
// the end when the total is an exact multiple of the page size.
func Paginate[T any](items []T, pageNumber, pageSize int, baseURL string) (Page[T], error) {
	if pageNumber < 1 || pageSize < 1 {
		return Page[T]{}, ErrInvalidPage
	}
	if pageSize > MaxPageSize {
		return Page[T]{}, ErrPageTooLarge
	}

	offset := (pageNumber - 1) * pageSize
	results := make([]T, 0, pageSize)
	if offset < len(items) {
		end := offset + pageSize
		if end > len(items) {
			end = len(items)
		}
		results = append(results, items[offset:end]...)
	}

	if i := strings.IndexByte(baseURL, '?'); i >= 0 {
		baseURL = baseURL[:i]
	}

	links := Links{Base: pageLink(baseURL, pageSize, pageNumber)}
	if pageNumber > 1 {
		links.Prev = pageLink(baseURL, pageSize, pageNumber-1)
	}
	if len(results) == pageSize {
		links.Next = pageLink(baseURL, pageSize, pageNumber+1)
	}

	return Page[T]{
		Links:      links,
		PageSize:   pageSize,
		PageNumber: pageNumber,
		Results:    results,
	}, nil
}

func pageLink(base string, size, number int) string {
	return fmt.Sprintf("%s?pageSize=%d&pageNumber=%d", base, size, number)
}

package models

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const cursorPrefix = "cursor:"

// PageArgs holds cursor pagination arguments for a connection query
type PageArgs struct {
	First        int
	After        string
	IncludeTotal bool
}

// ValidateAndSetDefaults validates page arguments and sets defaults
func (p *PageArgs) ValidateAndSetDefaults() {
	if p.First < 1 {
		p.First = 20
	}
	if p.First > 100 {
		p.First = 100
	}
}

// Offset resolves the After cursor into an absolute offset into the
// filtered, sorted collection
func (p *PageArgs) Offset() (int, error) {
	if p.After == "" {
		return 0, nil
	}
	pos, err := DecodeCursor(p.After)
	if err != nil {
		return 0, err
	}
	return pos + 1, nil
}

// EncodeCursor encodes an absolute position as an opaque cursor
func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor decodes an opaque cursor back into an absolute position
func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidInput(fmt.Sprintf("invalid cursor: %s", cursor))
	}
	s := string(raw)
	if !strings.HasPrefix(s, cursorPrefix) {
		return 0, ErrInvalidInput(fmt.Sprintf("invalid cursor: %s", cursor))
	}
	pos, err := strconv.Atoi(strings.TrimPrefix(s, cursorPrefix))
	if err != nil || pos < 0 {
		return 0, ErrInvalidInput(fmt.Sprintf("invalid cursor: %s", cursor))
	}
	return pos, nil
}

// Edge pairs an item with the cursor encoding its position
type Edge[T any] struct {
	Node   T      `json:"node"`
	Cursor string `json:"cursor"`
}

// PageInfo describes the boundaries of a connection page
type PageInfo struct {
	HasNextPage     bool    `json:"has_next_page"`
	HasPreviousPage bool    `json:"has_previous_page"`
	StartCursor     *string `json:"start_cursor,omitempty"`
	EndCursor       *string `json:"end_cursor,omitempty"`
}

// Connection is a cursor-addressable page over a filtered, sorted collection.
// TotalCount is only populated when the caller asked for it.
type Connection[T any] struct {
	Edges      []Edge[T] `json:"edges"`
	PageInfo   PageInfo  `json:"page_info"`
	TotalCount *int64    `json:"total_count,omitempty"`
}

// NewConnection builds a connection from one over-fetched window of items.
// items may contain up to first+1 entries; the extra entry signals another page.
func NewConnection[T any](items []T, offset, first int) Connection[T] {
	hasNext := false
	if len(items) > first {
		hasNext = true
		items = items[:first]
	}

	edges := make([]Edge[T], 0, len(items))
	for i, item := range items {
		edges = append(edges, Edge[T]{
			Node:   item,
			Cursor: EncodeCursor(offset + i),
		})
	}

	info := PageInfo{
		HasNextPage:     hasNext,
		HasPreviousPage: offset > 0,
	}
	if len(edges) > 0 {
		info.StartCursor = &edges[0].Cursor
		info.EndCursor = &edges[len(edges)-1].Cursor
	}

	return Connection[T]{
		Edges:    edges,
		PageInfo: info,
	}
}

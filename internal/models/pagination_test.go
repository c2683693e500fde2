package models

import (
	"testing"
)

func TestCursorRoundTrip(t *testing.T) {
	for _, offset := range []int{0, 1, 19, 100, 99999} {
		cursor := EncodeCursor(offset)
		got, err := DecodeCursor(cursor)
		if err != nil {
			t.Fatalf("DecodeCursor(%q) unexpected error: %v", cursor, err)
		}
		if got != offset {
			t.Errorf("DecodeCursor(EncodeCursor(%d)) = %d", offset, got)
		}
	}
}

func TestDecodeCursor_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{name: "not base64", cursor: "!!!"},
		{name: "wrong prefix", cursor: "b2Zmc2V0OjU="},    // "offset:5"
		{name: "non-numeric", cursor: "Y3Vyc29yOmFiYw=="}, // "cursor:abc"
		{name: "negative", cursor: "Y3Vyc29yOi0x"},        // "cursor:-1"
		{name: "empty position", cursor: "Y3Vyc29yOg=="},  // "cursor:"
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCursor(tt.cursor); err == nil {
				t.Errorf("DecodeCursor(%q) accepted an invalid cursor", tt.cursor)
			}
		})
	}
}

func TestPageArgs_Defaults(t *testing.T) {
	tests := []struct {
		name  string
		first int
		want  int
	}{
		{name: "zero defaults to 20", first: 0, want: 20},
		{name: "negative defaults to 20", first: -5, want: 20},
		{name: "within range kept", first: 42, want: 42},
		{name: "clamped to 100", first: 500, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PageArgs{First: tt.first}
			p.ValidateAndSetDefaults()
			if p.First != tt.want {
				t.Errorf("ValidateAndSetDefaults() first = %d, want %d", p.First, tt.want)
			}
		})
	}
}

func TestPageArgs_Offset(t *testing.T) {
	p := PageArgs{}
	offset, err := p.Offset()
	if err != nil || offset != 0 {
		t.Errorf("Offset() without cursor = (%d, %v), want (0, nil)", offset, err)
	}

	// The page after cursor position 4 starts at offset 5
	p = PageArgs{After: EncodeCursor(4)}
	offset, err = p.Offset()
	if err != nil {
		t.Fatalf("Offset() unexpected error: %v", err)
	}
	if offset != 5 {
		t.Errorf("Offset() = %d, want 5", offset)
	}

	p = PageArgs{After: "garbage"}
	if _, err := p.Offset(); err == nil {
		t.Errorf("Offset() accepted an invalid cursor")
	}
}

func TestNewConnection(t *testing.T) {
	items := []string{"a", "b", "c"}

	// Over-fetched window: 3 items for a page of 2 means another page exists
	conn := NewConnection(items, 0, 2)
	if len(conn.Edges) != 2 {
		t.Fatalf("NewConnection() edges = %d, want 2", len(conn.Edges))
	}
	if !conn.PageInfo.HasNextPage {
		t.Errorf("NewConnection() has_next_page = false, want true")
	}
	if conn.PageInfo.HasPreviousPage {
		t.Errorf("NewConnection() has_previous_page = true, want false")
	}
	if conn.Edges[0].Cursor != EncodeCursor(0) || conn.Edges[1].Cursor != EncodeCursor(1) {
		t.Errorf("NewConnection() cursors do not encode absolute positions")
	}
	if conn.PageInfo.StartCursor == nil || *conn.PageInfo.StartCursor != conn.Edges[0].Cursor {
		t.Errorf("NewConnection() start_cursor mismatch")
	}
	if conn.PageInfo.EndCursor == nil || *conn.PageInfo.EndCursor != conn.Edges[1].Cursor {
		t.Errorf("NewConnection() end_cursor mismatch")
	}

	// Exact window: no further page
	conn = NewConnection(items[:2], 2, 2)
	if conn.PageInfo.HasNextPage {
		t.Errorf("NewConnection() has_next_page = true, want false")
	}
	if !conn.PageInfo.HasPreviousPage {
		t.Errorf("NewConnection() has_previous_page = false, want true")
	}
	if conn.Edges[0].Cursor != EncodeCursor(2) {
		t.Errorf("NewConnection() cursor = %q, want position 2", conn.Edges[0].Cursor)
	}

	// Empty window
	conn = NewConnection([]string{}, 0, 2)
	if len(conn.Edges) != 0 {
		t.Errorf("NewConnection() edges = %d, want 0", len(conn.Edges))
	}
	if conn.PageInfo.StartCursor != nil || conn.PageInfo.EndCursor != nil {
		t.Errorf("NewConnection() empty page has cursors")
	}
}

package repository

import (
	"testing"
)

func TestBuildOrderBy(t *testing.T) {
	columns := map[string]string{
		"id":         "id",
		"name":       "name",
		"created_at": "created_at",
	}

	tests := []struct {
		name    string
		orderBy []string
		want    string
		wantErr bool
	}{
		{
			name:    "empty defaults to id",
			orderBy: nil,
			want:    " ORDER BY id ASC",
		},
		{
			name:    "ascending field",
			orderBy: []string{"name"},
			want:    " ORDER BY name ASC, id ASC",
		},
		{
			name:    "descending field",
			orderBy: []string{"-created_at"},
			want:    " ORDER BY created_at DESC, id ASC",
		},
		{
			name:    "multiple fields applied left to right",
			orderBy: []string{"-created_at", "name"},
			want:    " ORDER BY created_at DESC, name ASC, id ASC",
		},
		{
			name:    "unknown field rejected",
			orderBy: []string{"password"},
			wantErr: true,
		},
		{
			name:    "unknown descending field rejected",
			orderBy: []string{"-password"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildOrderBy(tt.orderBy, columns)
			if tt.wantErr {
				if err == nil {
					t.Errorf("buildOrderBy(%v) accepted an unknown field", tt.orderBy)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildOrderBy(%v) unexpected error: %v", tt.orderBy, err)
			}
			if got != tt.want {
				t.Errorf("buildOrderBy(%v) = %q, want %q", tt.orderBy, got, tt.want)
			}
		})
	}
}

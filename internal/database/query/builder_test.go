// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package query

import (
	"reflect"
	"testing"
)

func TestWhereBuilder_Empty(t *testing.T) {
	wb := NewWhereBuilder()

	if !wb.IsEmpty() {
		t.Error("Expected new builder to be empty")
	}
	if wb.Count() != 0 {
		t.Errorf("Expected count 0, got %d", wb.Count())
	}

	whereClause, args := wb.Build()
	if whereClause != "1=1" {
		t.Errorf("Expected '1=1' for empty builder, got %q", whereClause)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

func TestWhereBuilder_AddClause(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddClause("is_active = true")
	wb.AddClause("created_at BETWEEN ? AND ?", "2026-01-01", "2026-02-01")
	wb.AddClause("user_id = ?", "u-1")

	whereClause, args := wb.Build()
	expected := "is_active = true AND created_at BETWEEN $1 AND $2 AND user_id = $3"
	if whereClause != expected {
		t.Errorf("Expected %q, got %q", expected, whereClause)
	}
	if want := []any{"2026-01-01", "2026-02-01", "u-1"}; !reflect.DeepEqual(args, want) {
		t.Errorf("Expected args %v, got %v", want, args)
	}
	if wb.Count() != 3 {
		t.Errorf("Expected count 3, got %d", wb.Count())
	}
}

func TestWhereBuilder_AddEquals(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddEquals("category", "")
	if !wb.IsEmpty() {
		t.Fatal("Expected empty value to be skipped")
	}

	wb.AddEquals("category", "Nutrisi")
	whereClause, args := wb.BuildWithPrefix()
	if whereClause != "WHERE category = $1" {
		t.Errorf("Expected %q, got %q", "WHERE category = $1", whereClause)
	}
	if !reflect.DeepEqual(args, []any{"Nutrisi"}) {
		t.Errorf("Expected args [Nutrisi], got %v", args)
	}
}

func TestWhereBuilder_AddSearch(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		columns  []string
		wantSQL  string
		wantArgs []any
	}{
		{"blank term", "   ", []string{"title"}, "1=1", []any{}},
		{"no columns", "folat", nil, "1=1", []any{}},
		{"single column", "folat", []string{"title"}, "(title ILIKE $1)", []any{"%folat%"}},
		{"shares one parameter", " asam folat ", []string{"title", "content"}, "(title ILIKE $1 OR content ILIKE $1)", []any{"%asam folat%"}},
		{"escapes metacharacters", `50%_off\`, []string{"title"}, "(title ILIKE $1)", []any{`%50\%\_off\\%`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			whereClause, args := NewWhereBuilder().AddSearch(tt.term, tt.columns...).Build()
			if whereClause != tt.wantSQL {
				t.Errorf("Expected %q, got %q", tt.wantSQL, whereClause)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("Expected args %v, got %v", tt.wantArgs, args)
			}
		})
	}
}

func TestWhereBuilder_Page(t *testing.T) {
	wb := NewWhereBuilder().AddEquals("category", "Nutrisi").AddSearch("susu", "title")

	suffix, args := wb.Page(10, 20)
	if suffix != " LIMIT $3 OFFSET $4" {
		t.Errorf("Expected %q, got %q", " LIMIT $3 OFFSET $4", suffix)
	}
	if want := []any{"Nutrisi", "%susu%", 10, 20}; !reflect.DeepEqual(args, want) {
		t.Errorf("Expected args %v, got %v", want, args)
	}

	// The filter args stay usable for the count query.
	_, countArgs := wb.Build()
	if len(countArgs) != 2 {
		t.Errorf("Expected Page to leave 2 filter args, got %v", countArgs)
	}
}

func TestWhereBuilder_Param(t *testing.T) {
	wb := NewWhereBuilder()
	if p := wb.Param("a"); p != "$1" {
		t.Errorf("Expected $1, got %s", p)
	}
	if p := wb.Param("b"); p != "$2" {
		t.Errorf("Expected $2, got %s", p)
	}
	if !wb.IsEmpty() {
		t.Error("Param should not add a clause")
	}
}

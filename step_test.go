package lattice

import "testing"

func TestStepMapDelete(t *testing.T) {
	// Four tokens removed at position 5.
	m := NewStepMap(5, 4, 0)
	tests := []struct {
		name  string
		pos   int
		assoc int
		want  int
	}{
		{"before range", 3, 1, 3},
		{"at start", 5, 1, 5},
		{"inside assoc left", 7, -1, 5},
		{"inside assoc right", 7, 1, 5},
		{"at end", 9, -1, 5},
		{"after range", 12, 1, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Map(tt.pos, tt.assoc); got != tt.want {
				t.Errorf("Map(%d, %d) = %d, want %d", tt.pos, tt.assoc, got, tt.want)
			}
		})
	}
}

func TestStepMapInsert(t *testing.T) {
	// Four tokens inserted at position 5. assoc decides which side of the
	// insertion a position exactly at 5 lands on.
	m := NewStepMap(5, 0, 4)
	tests := []struct {
		name  string
		pos   int
		assoc int
		want  int
	}{
		{"before insertion", 3, 1, 3},
		{"at point assoc left", 5, -1, 5},
		{"at point assoc right", 5, 1, 9},
		{"after insertion", 7, 1, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Map(tt.pos, tt.assoc); got != tt.want {
				t.Errorf("Map(%d, %d) = %d, want %d", tt.pos, tt.assoc, got, tt.want)
			}
		})
	}
}

func TestStepMapReplace(t *testing.T) {
	// Three tokens at position 2 replaced with seven.
	m := NewStepMap(2, 3, 7)
	tests := []struct {
		name  string
		pos   int
		assoc int
		want  int
	}{
		{"at start stays put", 2, 1, 2},
		{"inside assoc left", 4, -1, 2},
		{"inside assoc right", 4, 1, 9},
		{"at end shifts", 5, -1, 9},
		{"after range", 10, 1, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Map(tt.pos, tt.assoc); got != tt.want {
				t.Errorf("Map(%d, %d) = %d, want %d", tt.pos, tt.assoc, got, tt.want)
			}
		})
	}
}

func TestMappingComposesInOrder(t *testing.T) {
	var m Mapping
	m.appendMap(NewStepMap(5, 0, 4)) // insert 4 at 5
	m.appendMap(NewStepMap(0, 2, 0)) // then delete 2 at 0

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	// 7 moves to 11 through the insert, then back to 9 through the delete.
	if got := m.Map(7, 1); got != 9 {
		t.Errorf("Map(7, 1) = %d, want 9", got)
	}
	// A position captured after the first step replays only the second.
	if got := m.Slice(1).Map(7, 1); got != 5 {
		t.Errorf("Slice(1).Map(7, 1) = %d, want 5", got)
	}
	if got := m.Slice(2).Map(7, 1); got != 7 {
		t.Errorf("Slice(2).Map(7, 1) = %d, want 7", got)
	}
}

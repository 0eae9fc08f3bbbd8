package lattice

import "testing"

func TestNewCellSelection(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))

	sel, err := NewCellSelection(doc, 2, 12)
	if err != nil {
		t.Fatalf("NewCellSelection: %v", err)
	}
	if !sel.IsCellSelection() {
		t.Error("IsCellSelection() = false")
	}
	if sel.From != sel.AnchorCell {
		t.Error("From should alias the anchor cell")
	}
}

func TestNewCellSelectionRejectsNonCell(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))

	// Position 3 sits inside the first cell's block, not before a cell.
	for _, tt := range []struct {
		name         string
		anchor, head int
	}{
		{"anchor off cell", 3, 12},
		{"head off cell", 2, 3},
		{"row position", 1, 12},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCellSelection(doc, tt.anchor, tt.head); err == nil {
				t.Fatal("NewCellSelection succeeded, want error")
			}
		})
	}
}

func TestNewSelectionIsNotCellSelection(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))
	sel, err := NewSelection(doc, 4)
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	if sel.IsCellSelection() {
		t.Error("single position reported as cell selection")
	}
}

func TestSelectedRectFromCursor(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))

	// A cursor inside the first cell's block selects that cell's slot.
	sel, err := NewSelection(doc, 4)
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		t.Fatalf("selectedRect: ok=%v err=%v", ok, err)
	}
	if want := (Rect{Left: 0, Top: 0, Right: 1, Bottom: 1}); rect.Rect != want {
		t.Errorf("rect = %+v, want %+v", rect.Rect, want)
	}
	if rect.TableStart != 1 {
		t.Errorf("TableStart = %d, want 1", rect.TableStart)
	}
}

func TestSelectedRectFromCellPair(t *testing.T) {
	doc := docFor(spanTable())

	// Anchor on the top-right cell, head on the bottom-right one. The
	// order of the pair does not matter.
	for _, tt := range []struct {
		name         string
		anchor, head int
	}{
		{"anchor first", 7, 14},
		{"head first", 14, 7},
	} {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := NewCellSelection(doc, tt.anchor, tt.head)
			if err != nil {
				t.Fatalf("NewCellSelection: %v", err)
			}
			rect, ok, err := selectedRect(sel)
			if err != nil || !ok {
				t.Fatalf("selectedRect: ok=%v err=%v", ok, err)
			}
			if want := (Rect{Left: 1, Top: 0, Right: 2, Bottom: 2}); rect.Rect != want {
				t.Errorf("rect = %+v, want %+v", rect.Rect, want)
			}
		})
	}
}

func TestSelectedRectOutsideTable(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))

	// Position 0 sits before the table itself.
	sel, err := NewSelection(doc, 0)
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	_, ok, err := selectedRect(sel)
	if err != nil {
		t.Fatalf("selectedRect: %v", err)
	}
	if ok {
		t.Error("selection outside a table produced a rect")
	}
}

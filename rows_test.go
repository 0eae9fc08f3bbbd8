package lattice

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// rectFor derives the full editing context from a selection, failing the
// test on a decline.
func rectFor(t *testing.T, sel *Selection) *TableRect {
	t.Helper()
	rect, ok, err := selectedRect(sel)
	if err != nil || !ok {
		t.Fatalf("selectedRect: ok=%v err=%v", ok, err)
	}
	return rect
}

func TestAddRowBefore(t *testing.T) {
	doc := docFor(tableOf(
		row(textCell("a"), textCell("b")),
		row(textCell("c"), textCell("d")),
	))
	tr, ok, err := AddRowBefore(testSchema, doc, selAt(t, doc, 1, 0))
	if err != nil || !ok {
		t.Fatalf("AddRowBefore: ok=%v err=%v", ok, err)
	}
	want := [][]string{{"a", "b"}, {"", ""}, {"c", "d"}}
	if diff := cmp.Diff(want, gridText(t, tr.Doc().Child(0))); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestAddRowAfterStretchesRowspan(t *testing.T) {
	doc := docFor(spanTable())

	// Inserting below the top row runs through the spanning cell, which
	// grows by a row instead of getting a new neighbor.
	tr, ok, err := AddRowAfter(testSchema, doc, selAt(t, doc, 0, 1))
	if err != nil || !ok {
		t.Fatalf("AddRowAfter: ok=%v err=%v", ok, err)
	}
	table := tr.Doc().Child(0)
	want := [][]string{{"a", "b"}, {"a", ""}, {"a", "c"}}
	if diff := cmp.Diff(want, gridText(t, table)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	m := mustMap(t, table)
	cell, err := cellAt(table, m.Map[0])
	if err != nil {
		t.Fatalf("cellAt: %v", err)
	}
	if cell.Attrs.Rowspan != 3 {
		t.Errorf("rowspan = %d, want 3", cell.Attrs.Rowspan)
	}
	// The new row holds only the synthesized cell.
	if table.Child(1).ChildCount() != 1 {
		t.Errorf("inserted row has %d cells, want 1", table.Child(1).ChildCount())
	}
}

func TestAddRowCellTypes(t *testing.T) {
	tests := []struct {
		name  string
		table *Node
		sel   func(t *testing.T, doc *Node) *Selection
		after bool
		row   int // row to inspect in the result
		want  []Role
	}{
		{
			// A mixed reference row propagates its types per column.
			name: "mixed reference row",
			table: tableOf(
				row(headerCell("h"), textCell("b")),
			),
			sel:   func(t *testing.T, doc *Node) *Selection { return selAt(t, doc, 0, 0) },
			after: true,
			row:   1,
			want:  []Role{RoleHeaderCell, RoleCell},
		},
		{
			// Below an all-header row at the table edge the fallback is
			// plain data cells.
			name: "below all-header table",
			table: tableOf(
				row(headerCell("h1"), headerCell("h2")),
			),
			sel:   func(t *testing.T, doc *Node) *Selection { return selAt(t, doc, 0, 0) },
			after: true,
			row:   1,
			want:  []Role{RoleCell, RoleCell},
		},
		{
			// Between a header row and a data row the data row is the
			// reference.
			name: "between header and data",
			table: tableOf(
				row(headerCell("h1"), headerCell("h2")),
				row(textCell("a"), textCell("b")),
			),
			sel:   func(t *testing.T, doc *Node) *Selection { return selAt(t, doc, 0, 0) },
			after: true,
			row:   1,
			want:  []Role{RoleCell, RoleCell},
		},
		{
			// Above an all-header first row.
			name: "above all-header row",
			table: tableOf(
				row(headerCell("h1"), headerCell("h2")),
			),
			sel:   func(t *testing.T, doc *Node) *Selection { return selAt(t, doc, 0, 0) },
			after: false,
			row:   0,
			want:  []Role{RoleCell, RoleCell},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := docFor(tt.table)
			sel := tt.sel(t, doc)
			var (
				tr  *Transaction
				ok  bool
				err error
			)
			if tt.after {
				tr, ok, err = AddRowAfter(testSchema, doc, sel)
			} else {
				tr, ok, err = AddRowBefore(testSchema, doc, sel)
			}
			if err != nil || !ok {
				t.Fatalf("add row: ok=%v err=%v", ok, err)
			}
			rowNode := tr.Doc().Child(0).Child(tt.row)
			var got []Role
			for i := 0; i < rowNode.ChildCount(); i++ {
				got = append(got, rowNode.Child(i).Type.Role)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("cell roles (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddRowIndexOutOfRange(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))
	rect := rectFor(t, selAt(t, doc, 0, 0))
	tr := NewTransaction(doc)
	if err := AddRow(testSchema, tr, rect, 5); err == nil {
		t.Fatal("AddRow(5) succeeded, want error")
	}
	if err := AddRow(testSchema, tr, rect, -1); err == nil {
		t.Fatal("AddRow(-1) succeeded, want error")
	}
}

func TestRemoveRowShrinksSpanFromAbove(t *testing.T) {
	doc := docFor(spanTable())
	tr, ok, err := RemoveSelectedRows(doc, selAt(t, doc, 1, 1))
	if err != nil || !ok {
		t.Fatalf("RemoveSelectedRows: ok=%v err=%v", ok, err)
	}
	table := tr.Doc().Child(0)
	want := [][]string{{"a", "b"}}
	if diff := cmp.Diff(want, gridText(t, table)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	m := mustMap(t, table)
	cell, err := cellAt(table, m.Map[0])
	if err != nil {
		t.Fatalf("cellAt: %v", err)
	}
	if cell.Attrs.Rowspan != 1 {
		t.Errorf("rowspan = %d, want 1", cell.Attrs.Rowspan)
	}
}

func TestRemoveRowRelocatesAnchor(t *testing.T) {
	// "X" is anchored in the doomed row but continues below, so it moves
	// down with its content.
	doc := docFor(tableOf(
		row(textCell("a"), textCell("b")),
		row(spanCell("X", 1, 2), textCell("y")),
		row(textCell("z")),
	))
	tr, ok, err := RemoveSelectedRows(doc, selAt(t, doc, 1, 1))
	if err != nil || !ok {
		t.Fatalf("RemoveSelectedRows: ok=%v err=%v", ok, err)
	}
	table := tr.Doc().Child(0)
	want := [][]string{{"a", "b"}, {"X", "z"}}
	if diff := cmp.Diff(want, gridText(t, table)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	m := mustMap(t, table)
	cell, err := cellAt(table, m.Map[m.Width])
	if err != nil {
		t.Fatalf("cellAt: %v", err)
	}
	if cell.Attrs.Rowspan != 1 {
		t.Errorf("rowspan = %d, want 1", cell.Attrs.Rowspan)
	}
}

func TestRemoveRowRelocatesTwoAnchors(t *testing.T) {
	// Two cells anchored in the same doomed row both move down; the
	// second insertion has to account for the first one's tokens.
	doc := docFor(tableOf(
		row(textCell("a"), textCell("b")),
		row(spanCell("X", 1, 2), spanCell("Y", 1, 2)),
		row(),
	))
	rect := rectFor(t, selAt(t, doc, 0, 0))
	tr := NewTransaction(doc)
	if err := RemoveRow(tr, rect, 1); err != nil {
		t.Fatalf("RemoveRow: %v", err)
	}
	table := tr.Doc().Child(0)
	want := [][]string{{"a", "b"}, {"X", "Y"}}
	if diff := cmp.Diff(want, gridText(t, table)); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveSelectedRowsKeepsLastRow(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))
	tr, ok, err := RemoveSelectedRows(doc, selRect(t, doc, 0, 0, 1, 1))
	if err != nil {
		t.Fatalf("RemoveSelectedRows: %v", err)
	}
	if ok || tr != nil {
		t.Error("removing every row should decline")
	}
}

func TestRemoveSelectedRowsMultiple(t *testing.T) {
	doc := docFor(tableOf(
		row(textCell("a"), textCell("b")),
		row(textCell("c"), textCell("d")),
		row(textCell("e"), textCell("f")),
	))
	tr, ok, err := RemoveSelectedRows(doc, selRect(t, doc, 0, 0, 1, 1))
	if err != nil || !ok {
		t.Fatalf("RemoveSelectedRows: ok=%v err=%v", ok, err)
	}
	want := [][]string{{"e", "f"}}
	if diff := cmp.Diff(want, gridText(t, tr.Doc().Child(0))); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveRow(t *testing.T) {
	doc := docFor(tableOf(
		row(textCell("a"), textCell("b")),
		row(textCell("c"), textCell("d")),
		row(textCell("e"), textCell("f")),
	))
	tr, ok, err := MoveRow(doc, selAt(t, doc, 0, 0), 0, 2, true)
	if err != nil || !ok {
		t.Fatalf("MoveRow: ok=%v err=%v", ok, err)
	}
	want := [][]string{{"c", "d"}, {"e", "f"}, {"a", "b"}}
	if diff := cmp.Diff(want, gridText(t, tr.Doc().Child(0))); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	sel := tr.Selection()
	if sel == nil || !sel.IsCellSelection() {
		t.Fatal("moved row did not propose a selection")
	}
	movedRect := rectFor(t, sel)
	if want := (Rect{Left: 0, Top: 2, Right: 2, Bottom: 3}); movedRect.Rect != want {
		t.Errorf("selection rect = %+v, want %+v", movedRect.Rect, want)
	}
}

func TestMoveRowToTop(t *testing.T) {
	doc := docFor(tableOf(
		row(textCell("a"), textCell("b")),
		row(textCell("c"), textCell("d")),
		row(textCell("e"), textCell("f")),
	))
	tr, ok, err := MoveRow(doc, selAt(t, doc, 0, 0), 2, 0, false)
	if err != nil || !ok {
		t.Fatalf("MoveRow: ok=%v err=%v", ok, err)
	}
	want := [][]string{{"e", "f"}, {"a", "b"}, {"c", "d"}}
	if diff := cmp.Diff(want, gridText(t, tr.Doc().Child(0))); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestMoveRowDeclines(t *testing.T) {
	t.Run("rowspan crosses boundary", func(t *testing.T) {
		doc := docFor(spanTable())
		tr, ok, err := MoveRow(doc, selAt(t, doc, 0, 1), 0, 1, false)
		if err != nil {
			t.Fatalf("MoveRow: %v", err)
		}
		if ok || tr != nil {
			t.Error("moving through a rowspan should decline")
		}
	})
	t.Run("out of range", func(t *testing.T) {
		doc := docFor(testSchema.CreateTable(2, 2))
		_, ok, err := MoveRow(doc, selAt(t, doc, 0, 0), 0, 5, false)
		if err != nil {
			t.Fatalf("MoveRow: %v", err)
		}
		if ok {
			t.Error("out-of-range move should decline")
		}
	})
}

func TestMoveRowNoop(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))
	tr, ok, err := MoveRow(doc, selAt(t, doc, 0, 0), 1, 1, false)
	if err != nil || !ok {
		t.Fatalf("MoveRow: ok=%v err=%v", ok, err)
	}
	if tr.DocChanged() {
		t.Error("moving a row onto itself staged steps")
	}
}

func TestToggleHeaderRow(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))

	tr, ok, err := ToggleHeaderRow(testSchema, doc, selAt(t, doc, 0, 0))
	if err != nil || !ok {
		t.Fatalf("ToggleHeaderRow: ok=%v err=%v", ok, err)
	}
	doc2 := tr.Doc()
	firstRow := doc2.Child(0).Child(0)
	for i := 0; i < firstRow.ChildCount(); i++ {
		if firstRow.Child(i).Type.Role != RoleHeaderCell {
			t.Errorf("cell %d role = %v, want header", i, firstRow.Child(i).Type.Role)
		}
	}
	// The second row is untouched.
	if doc2.Child(0).Child(1).Child(0).Type.Role != RoleCell {
		t.Error("second row was converted")
	}

	// Toggling again goes back to data cells.
	tr, ok, err = ToggleHeaderRow(testSchema, doc2, selAt(t, doc2, 0, 0))
	if err != nil || !ok {
		t.Fatalf("second ToggleHeaderRow: ok=%v err=%v", ok, err)
	}
	firstRow = tr.Doc().Child(0).Child(0)
	for i := 0; i < firstRow.ChildCount(); i++ {
		if firstRow.Child(i).Type.Role != RoleCell {
			t.Errorf("cell %d role = %v, want data", i, firstRow.Child(i).Type.Role)
		}
	}
}

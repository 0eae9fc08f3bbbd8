package lattice

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		name string
		raw  []float64
		want []float64
	}{
		{"empty", []float64{}, []float64{}},
		{"single column", []float64{10}, []float64{100}},
		{"all specified", []float64{60, 20}, []float64{75, 25}},
		{"all zero passes through", []float64{0, 0, 0}, []float64{0, 0, 0}},
		{"unspecified get average weight", []float64{40, 0, 0}, []float64{33.333, 33.333, 33.334}},
		{"already percentages", []float64{50, 50}, []float64{50, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distribute(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Distribute(%v) (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestDistributeSumsToHundred(t *testing.T) {
	inputs := [][]float64{
		{1, 1, 1},
		{7, 13, 0, 29},
		{0.1, 0.2, 0.3, 0, 0, 0.4},
	}
	for _, raw := range inputs {
		got := Distribute(raw)
		sum := 0.0
		for _, v := range got {
			sum += v
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("Distribute(%v) sums to %v", raw, sum)
		}
	}
}

func TestPixelsToPercent(t *testing.T) {
	got := PixelsToPercent([]float64{100, 100}, 200)
	if diff := cmp.Diff([]float64{50, 50}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	// A zero table width yields all zeros rather than dividing by it.
	got = PixelsToPercent([]float64{100, 100}, 0)
	if diff := cmp.Diff([]float64{0, 0}, got); diff != "" {
		t.Errorf("zero width (-want +got):\n%s", diff)
	}
}

func TestColumnWidths(t *testing.T) {
	tests := []struct {
		name  string
		table *Node
		want  []float64
	}{
		{
			name: "spanning cell supplies both columns",
			table: tableOf(
				row(widthCell("a", 2, 30, 70)),
				row(textCell("b"), textCell("c")),
			),
			want: []float64{30, 70},
		},
		{
			name: "unspecified columns stay zero",
			table: tableOf(
				row(widthCell("a", 1, 40), textCell("b")),
			),
			want: []float64{40, 0},
		},
		{
			name: "first specified width wins",
			table: tableOf(
				row(widthCell("a", 1, 40), textCell("b")),
				row(widthCell("c", 1, 60), textCell("d")),
			),
			want: []float64{40, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ColumnWidths(tt.table)
			if err != nil {
				t.Fatalf("ColumnWidths: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

// tableRectOf builds the editing context covering the whole grid.
func tableRectOf(t *testing.T, doc *Node) *TableRect {
	t.Helper()
	table := doc.Child(0)
	m := mustMap(t, table)
	return &TableRect{
		Rect:       Rect{Left: 0, Top: 0, Right: m.Width, Bottom: m.Height},
		Table:      table,
		TableStart: 1,
		Map:        m,
	}
}

func TestSetColumnWidthsRoundTrip(t *testing.T) {
	doc := docFor(tableOf(
		row(spanCell("a", 2, 1)),
		row(textCell("b"), textCell("c")),
	))
	tr := NewTransaction(doc)
	if err := SetColumnWidths(tr, tableRectOf(t, doc), []float64{60, 40}); err != nil {
		t.Fatalf("SetColumnWidths: %v", err)
	}
	table := tr.Doc().Child(0)
	m := mustMap(t, table)
	wide, err := cellAt(table, m.Map[0])
	if err != nil {
		t.Fatalf("cellAt: %v", err)
	}
	if diff := cmp.Diff([]float64{60, 40}, wide.Attrs.Colwidth); diff != "" {
		t.Errorf("spanning cell colwidth (-want +got):\n%s", diff)
	}
	narrow, err := cellAt(table, m.Map[m.Width+1])
	if err != nil {
		t.Fatalf("cellAt: %v", err)
	}
	if diff := cmp.Diff([]float64{40}, narrow.Attrs.Colwidth); diff != "" {
		t.Errorf("second column colwidth (-want +got):\n%s", diff)
	}

	got, err := ColumnWidths(table)
	if err != nil {
		t.Fatalf("ColumnWidths: %v", err)
	}
	if diff := cmp.Diff([]float64{60, 40}, got); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestSetColumnWidthsCountMismatch(t *testing.T) {
	doc := docFor(testSchema.CreateTable(2, 2))
	tr := NewTransaction(doc)
	if err := SetColumnWidths(tr, tableRectOf(t, doc), []float64{100}); err == nil {
		t.Fatal("SetColumnWidths with one width succeeded, want error")
	}
}

// lattice-bench is a benchmark and stress test for the lattice library.
// It builds large tables and measures map construction and edit throughput.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/phroun/lattice"
)

const (
	smallRows, smallCols = 20, 10
	largeRows, largeCols = 1000, 30
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
}

func main() {
	fmt.Println("Lattice Benchmark and Stress Test")
	fmt.Println("==================================")
	fmt.Printf("Small table: %dx%d, large table: %dx%d\n", smallRows, smallCols, largeRows, largeCols)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	schema := lattice.DefaultSchema()

	var results []BenchResult
	runBench := func(name string, fn func() BenchResult) {
		fmt.Printf("  %-40s ", name+"...")
		result := fn()
		fmt.Printf("%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
	}

	fmt.Println("Running benchmarks...")
	fmt.Println()

	fmt.Println("Map construction:")
	runBench("Build map (cold, large table)", func() BenchResult { return benchMapCold(schema) })
	runBench("Build map (cached)", func() BenchResult { return benchMapCached(schema) })

	fmt.Println("\nMap queries:")
	runBench("FindCell sweep", func() BenchResult { return benchFindCell(schema) })
	runBench("PositionAt sweep", func() BenchResult { return benchPositionAt(schema) })

	fmt.Println("\nStructural edits:")
	runBench("Insert rows", func() BenchResult { return benchAddRows(schema) })
	runBench("Insert columns", func() BenchResult { return benchAddColumns(schema) })
	runBench("Remove rows", func() BenchResult { return benchRemoveRows(schema) })
	runBench("Merge and split cycles", func() BenchResult { return benchMergeSplit(schema) })

	fmt.Println("\nColumn widths:")
	runBench("Distribute sweep", func() BenchResult { return benchDistribute() })

	fmt.Println("\n" + "=")
	fmt.Println("SUMMARY")
	fmt.Println("=")
	for _, r := range results {
		fmt.Println(r)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Println()
	fmt.Printf("Peak heap allocation: %d MB\n", m.HeapSys/(1024*1024))
	fmt.Printf("Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
}

// docWithTable wraps a fresh table in a one-child document. The table's
// content starts at position 1.
func docWithTable(schema *lattice.Schema, rows, cols int) *lattice.Node {
	return lattice.NewNode(schema.Block, nil, schema.CreateTable(rows, cols))
}

func selectionAt(doc *lattice.Node, row, col int) *lattice.Selection {
	table := doc.Child(0)
	m, err := lattice.MapOf(table)
	if err != nil {
		fmt.Printf("Failed to build map: %v\n", err)
		os.Exit(1)
	}
	pos := 1 + m.Map[row*m.Width+col]
	sel, err := lattice.NewCellSelection(doc, pos, pos)
	if err != nil {
		fmt.Printf("Failed to build selection: %v\n", err)
		os.Exit(1)
	}
	return sel
}

func benchMapCold(schema *lattice.Schema) BenchResult {
	ops := 0
	start := time.Now()

	// Fresh table each iteration defeats the identity cache.
	for i := 0; i < 50; i++ {
		table := schema.CreateTable(largeRows, largeCols)
		if _, err := lattice.MapOf(table); err != nil {
			return BenchResult{Name: "Build map (cold, large table)", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		ops++
	}

	return BenchResult{
		Name:     "Build map (cold, large table)",
		Duration: time.Since(start),
		Ops:      ops,
		Extra:    fmt.Sprintf("%d slots each", largeRows*largeCols),
	}
}

func benchMapCached(schema *lattice.Schema) BenchResult {
	table := schema.CreateTable(largeRows, largeCols)
	if _, err := lattice.MapOf(table); err != nil {
		return BenchResult{Name: "Build map (cached)", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	ops := 0
	start := time.Now()

	for i := 0; i < 100000; i++ {
		lattice.MapOf(table)
		ops++
	}

	return BenchResult{
		Name:     "Build map (cached)",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchFindCell(schema *lattice.Schema) BenchResult {
	table := schema.CreateTable(largeRows, largeCols)
	m, err := lattice.MapOf(table)
	if err != nil {
		return BenchResult{Name: "FindCell sweep", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	ops := 0
	start := time.Now()

	for i := 0; i < 10; i++ {
		for _, pos := range m.Map {
			if _, err := m.FindCell(pos); err == nil {
				ops++
			}
		}
	}

	return BenchResult{
		Name:     "FindCell sweep",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchPositionAt(schema *lattice.Schema) BenchResult {
	table := schema.CreateTable(largeRows, largeCols)
	m, err := lattice.MapOf(table)
	if err != nil {
		return BenchResult{Name: "PositionAt sweep", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	ops := 0
	start := time.Now()

	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			m.PositionAt(row, col, table)
			ops++
		}
	}

	return BenchResult{
		Name:     "PositionAt sweep",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchAddRows(schema *lattice.Schema) BenchResult {
	doc := docWithTable(schema, smallRows, smallCols)
	ops := 0
	start := time.Now()

	for i := 0; i < 500; i++ {
		sel := selectionAt(doc, 0, 0)
		tr, ok, err := lattice.AddRowAfter(schema, doc, sel)
		if err != nil || !ok {
			return BenchResult{Name: "Insert rows", Extra: fmt.Sprintf("ERROR at op %d: %v", i, err)}
		}
		doc = tr.Doc()
		ops++
	}

	return BenchResult{
		Name:     "Insert rows",
		Duration: time.Since(start),
		Ops:      ops,
		Extra:    fmt.Sprintf("final height %d", smallRows+ops),
	}
}

func benchAddColumns(schema *lattice.Schema) BenchResult {
	doc := docWithTable(schema, smallRows, smallCols)
	ops := 0
	start := time.Now()

	for i := 0; i < 100; i++ {
		sel := selectionAt(doc, 0, 0)
		tr, ok, err := lattice.AddColumnAfter(schema, doc, sel)
		if err != nil || !ok {
			return BenchResult{Name: "Insert columns", Extra: fmt.Sprintf("ERROR at op %d: %v", i, err)}
		}
		doc = tr.Doc()
		ops++
	}

	return BenchResult{
		Name:     "Insert columns",
		Duration: time.Since(start),
		Ops:      ops,
		Extra:    fmt.Sprintf("final width %d", smallCols+ops),
	}
}

func benchRemoveRows(schema *lattice.Schema) BenchResult {
	doc := docWithTable(schema, largeRows, smallCols)
	ops := 0
	start := time.Now()

	// Leave one row behind; removing the last one declines.
	for i := 0; i < largeRows-1; i++ {
		sel := selectionAt(doc, 0, 0)
		tr, ok, err := lattice.RemoveSelectedRows(doc, sel)
		if err != nil || !ok {
			return BenchResult{Name: "Remove rows", Extra: fmt.Sprintf("ERROR at op %d: %v", i, err)}
		}
		doc = tr.Doc()
		ops++
	}

	return BenchResult{
		Name:     "Remove rows",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchMergeSplit(schema *lattice.Schema) BenchResult {
	doc := docWithTable(schema, smallRows, smallCols)
	table := doc.Child(0)
	m, err := lattice.MapOf(table)
	if err != nil {
		return BenchResult{Name: "Merge and split cycles", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	ops := 0
	start := time.Now()

	for i := 0; i < 200; i++ {
		anchor := 1 + m.Map[0]
		head := 1 + m.Map[2*m.Width+2]
		sel, err := lattice.NewCellSelection(doc, anchor, head)
		if err != nil {
			return BenchResult{Name: "Merge and split cycles", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		tr, ok, err := lattice.MergeCells(doc, sel)
		if err != nil || !ok {
			return BenchResult{Name: "Merge and split cycles", Extra: fmt.Sprintf("merge ERROR at op %d: %v", i, err)}
		}
		merged := tr.Doc()

		sel = selectionAt(merged, 0, 0)
		tr, ok, err = lattice.SplitCell(schema, merged, sel)
		if err != nil || !ok {
			return BenchResult{Name: "Merge and split cycles", Extra: fmt.Sprintf("split ERROR at op %d: %v", i, err)}
		}
		doc = tr.Doc()
		table = doc.Child(0)
		m, err = lattice.MapOf(table)
		if err != nil {
			return BenchResult{Name: "Merge and split cycles", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		ops += 2
	}

	return BenchResult{
		Name:     "Merge and split cycles",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchDistribute() BenchResult {
	widths := make([]float64, 200)
	for i := range widths {
		if i%3 == 0 {
			widths[i] = float64(10 + i%7)
		}
	}

	ops := 0
	start := time.Now()

	for i := 0; i < 100000; i++ {
		lattice.Distribute(widths)
		ops++
	}

	return BenchResult{
		Name:     "Distribute sweep",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

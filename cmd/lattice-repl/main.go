package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/phroun/lattice"
)

// REPL holds the state of the interactive session
type REPL struct {
	schema *lattice.Schema
	doc    *lattice.Node
	reader *bufio.Reader

	// Selection tracked as grid coordinates so it survives document edits.
	anchorRow, anchorCol int
	headRow, headCol     int
}

func main() {
	fmt.Println("Lattice REPL - Interactive Table Editing Demo")
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()

	repl := &REPL{
		schema: lattice.DefaultSchema(),
		reader: bufio.NewReader(os.Stdin),
	}

	// Main loop
	for {
		fmt.Print("lattice> ")
		input, err := repl.reader.ReadString('\n')
		if err != nil {
			fmt.Println("\nGoodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !repl.handleCommand(input) {
			break
		}
	}
}

func (r *REPL) handleCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help":
		r.printHelp()

	case "quit", "exit":
		fmt.Println("Goodbye!")
		return false

	case "new":
		r.cmdNew(args)

	case "show":
		r.cmdShow()

	case "map":
		r.cmdMap()

	case "status":
		r.cmdStatus()

	case "select":
		r.cmdSelect(args)

	case "set":
		r.cmdSet(args)

	case "addrow":
		r.cmdAddRow(args)

	case "addcol":
		r.cmdAddCol(args)

	case "delrow":
		r.cmdDelRow()

	case "delcol":
		r.cmdDelCol()

	case "moverow":
		r.cmdMoveRow(args)

	case "movecol":
		r.cmdMoveCol(args)

	case "merge":
		r.cmdMerge()

	case "split":
		r.cmdSplit()

	case "headerrow":
		r.cmdHeaderRow()

	case "headercol":
		r.cmdHeaderCol()

	case "widths":
		r.cmdWidths(args)

	case "drag":
		r.cmdDrag(args)

	case "fix":
		r.cmdFix()

	case "trace":
		r.cmdTrace(args)

	default:
		fmt.Printf("Unknown command: %s. Type 'help' for available commands.\n", cmd)
	}

	return true
}

func (r *REPL) printHelp() {
	help := `
Available Commands:
-------------------

TABLE OPERATIONS:
  new <rows> <cols>       Create a new table with the given dimensions
  show                    Render the table grid
  map                     Show the cell map (grid slot -> cell offset)
  status                  Show table dimensions and selection

SELECTION:
  select <r> <c>          Put the cursor in a cell
  select <r> <c> <r2> <c2>  Select the rectangle spanned by two cells

EDITING:
  set <r> <c> <text>      Replace a cell's content with text
  addrow before|after     Insert a row next to the selection
  addcol before|after     Insert a column next to the selection
  delrow                  Delete the selected rows
  delcol                  Delete the selected columns
  moverow <from> <to>     Move a row to another position
  movecol <from> <to>     Move a column to another position
  merge                   Merge the selected cells into one
  split                   Split the selected spanning cell
  headerrow               Toggle the first row between header and body
  headercol               Toggle the first column between header and body

COLUMN WIDTHS:
  widths                  Show the current width distribution
  widths <w1> <w2> ...    Set widths (percentages, 0 = unspecified)
  drag <col> <delta>      Simulate dragging a column boundary by delta px

MAINTENANCE:
  fix                     Repair collisions, overlong spans, missing cells
  trace on|off            Toggle internal trace logging

OTHER:
  help                    Show this help message
  quit, exit              Exit the REPL
`
	fmt.Println(help)
}

func (r *REPL) cmdNew(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: new <rows> <cols>")
		return
	}

	rows, err1 := strconv.Atoi(args[0])
	cols, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || rows < 1 || cols < 1 {
		fmt.Println("Rows and cols must be positive integers")
		return
	}

	table := r.schema.CreateTable(rows, cols)
	r.doc = lattice.NewNode(r.schema.Block, nil, table)
	r.anchorRow, r.anchorCol = 0, 0
	r.headRow, r.headCol = 0, 0
	fmt.Printf("Created %dx%d table\n", rows, cols)
	r.cmdShow()
}

// table returns the document's table node and the position of its content
// start within the document.
func (r *REPL) table() (*lattice.Node, int) {
	return r.doc.Child(0), 1
}

func (r *REPL) tableMap() (*lattice.TableMap, error) {
	table, _ := r.table()
	return lattice.MapOf(table)
}

// selection rebuilds a Selection from the tracked grid coordinates against
// the current document.
func (r *REPL) selection() (*lattice.Selection, error) {
	table, tableStart := r.table()
	m, err := lattice.MapOf(table)
	if err != nil {
		return nil, err
	}

	clamp := func(v, limit int) int {
		if v < 0 {
			return 0
		}
		if v >= limit {
			return limit - 1
		}
		return v
	}
	r.anchorRow = clamp(r.anchorRow, m.Height)
	r.anchorCol = clamp(r.anchorCol, m.Width)
	r.headRow = clamp(r.headRow, m.Height)
	r.headCol = clamp(r.headCol, m.Width)

	anchor := tableStart + m.Map[r.anchorRow*m.Width+r.anchorCol]
	head := tableStart + m.Map[r.headRow*m.Width+r.headCol]
	return lattice.NewCellSelection(r.doc, anchor, head)
}

// apply reports a command's outcome and installs the new document on
// success.
func (r *REPL) apply(tr *lattice.Transaction, ok bool, err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if !ok {
		fmt.Println("Not applicable here")
		return
	}
	r.doc = tr.Doc()
	if !tr.DocChanged() {
		fmt.Println("No change")
		return
	}
	r.cmdShow()
}

func (r *REPL) cmdShow() {
	if !r.ensureTable() {
		return
	}

	table, _ := r.table()
	m, err := lattice.MapOf(table)
	if err != nil {
		fmt.Printf("Map error: %v\n", err)
		return
	}

	header := color.New(color.FgCyan, color.Bold)
	selected := color.New(color.FgYellow)

	selLeft, selTop := min(r.anchorCol, r.headCol), min(r.anchorRow, r.headRow)
	selRight, selBottom := max(r.anchorCol, r.headCol)+1, max(r.anchorRow, r.headRow)+1

	w := tablewriter.NewWriter(os.Stdout)
	colNames := make([]string, m.Width)
	for c := range colNames {
		colNames[c] = fmt.Sprintf("c%d", c)
	}
	w.Header(colNames)

	for row := 0; row < m.Height; row++ {
		line := make([]string, m.Width)
		for col := 0; col < m.Width; col++ {
			pos := m.Map[row*m.Width+col]
			if pos == 0 {
				line[col] = "??"
				continue
			}
			cell := table.NodeAt(pos)
			if cell == nil {
				line[col] = "??"
				continue
			}
			anchored := (col == 0 || m.Map[row*m.Width+col-1] != pos) &&
				(row == 0 || m.Map[(row-1)*m.Width+col] != pos)
			text := cellText(cell)
			if text == "" {
				text = "."
			}
			if !anchored {
				text = "^"
			}
			switch {
			case cell.Type == r.schema.HeaderCell:
				text = header.Sprint(text)
			case row >= selTop && row < selBottom && col >= selLeft && col < selRight:
				text = selected.Sprint(text)
			}
			line[col] = text
		}
		w.Append(line)
	}
	if err := w.Render(); err != nil {
		fmt.Printf("Render error: %v\n", err)
	}
	if len(m.Problems) > 0 {
		fmt.Printf("Problems: %d (run 'fix' to repair)\n", len(m.Problems))
	}
}

func (r *REPL) cmdMap() {
	if !r.ensureTable() {
		return
	}

	m, err := r.tableMap()
	if err != nil {
		fmt.Printf("Map error: %v\n", err)
		return
	}

	fmt.Printf("Grid %dx%d:\n", m.Width, m.Height)
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			fmt.Printf("%5d", m.Map[row*m.Width+col])
		}
		fmt.Println()
	}
	for _, p := range m.Problems {
		fmt.Printf("  problem: kind=%d row=%d pos=%d n=%d\n", p.Kind, p.Row, p.Pos, p.N)
	}
}

func (r *REPL) cmdStatus() {
	if !r.ensureTable() {
		return
	}

	m, err := r.tableMap()
	if err != nil {
		fmt.Printf("Map error: %v\n", err)
		return
	}

	fmt.Println("Table Status:")
	fmt.Printf("  Grid: %d columns x %d rows\n", m.Width, m.Height)
	fmt.Printf("  Problems: %d\n", len(m.Problems))
	fmt.Printf("  Selection: (%d,%d) to (%d,%d)\n",
		r.anchorRow, r.anchorCol, r.headRow, r.headCol)
	fmt.Printf("  Document size: %d\n", r.doc.NodeSize())
}

func (r *REPL) cmdSelect(args []string) {
	if !r.ensureTable() {
		return
	}

	if len(args) != 2 && len(args) != 4 {
		fmt.Println("Usage: select <row> <col> [<row2> <col2>]")
		return
	}

	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			fmt.Printf("Invalid coordinate: %v\n", err)
			return
		}
		nums[i] = n
	}

	r.anchorRow, r.anchorCol = nums[0], nums[1]
	r.headRow, r.headCol = nums[0], nums[1]
	if len(nums) == 4 {
		r.headRow, r.headCol = nums[2], nums[3]
	}

	if _, err := r.selection(); err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	fmt.Printf("Selected (%d,%d) to (%d,%d)\n",
		r.anchorRow, r.anchorCol, r.headRow, r.headCol)
}

func (r *REPL) cmdSet(args []string) {
	if !r.ensureTable() {
		return
	}

	if len(args) < 3 {
		fmt.Println("Usage: set <row> <col> <text>")
		return
	}

	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("Row and col must be integers")
		return
	}
	text := strings.Join(args[2:], " ")

	table, tableStart := r.table()
	m, err := lattice.MapOf(table)
	if err != nil {
		fmt.Printf("Map error: %v\n", err)
		return
	}
	if row < 0 || row >= m.Height || col < 0 || col >= m.Width {
		fmt.Println("Cell out of range")
		return
	}

	pos := m.Map[row*m.Width+col]
	cell := table.NodeAt(pos)
	if cell == nil {
		fmt.Println("No cell at that slot")
		return
	}

	block := lattice.NewNode(r.schema.Block, nil, lattice.NewText(r.schema.Text, text))
	tr := lattice.NewTransaction(r.doc)
	from := tableStart + pos + 1
	if err := tr.ReplaceWith(from, from+cell.ContentSize(), block); err != nil {
		fmt.Printf("Edit error: %v\n", err)
		return
	}
	r.doc = tr.Doc()
	r.cmdShow()
}

func (r *REPL) cmdAddRow(args []string) {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	if len(args) > 0 && strings.ToLower(args[0]) == "before" {
		r.apply(lattice.AddRowBefore(r.schema, r.doc, sel))
		return
	}
	r.apply(lattice.AddRowAfter(r.schema, r.doc, sel))
}

func (r *REPL) cmdAddCol(args []string) {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	if len(args) > 0 && strings.ToLower(args[0]) == "before" {
		r.apply(lattice.AddColumnBefore(r.schema, r.doc, sel))
		return
	}
	r.apply(lattice.AddColumnAfter(r.schema, r.doc, sel))
}

func (r *REPL) cmdDelRow() {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.RemoveSelectedRows(r.doc, sel))
}

func (r *REPL) cmdDelCol() {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.RemoveSelectedColumns(r.doc, sel))
}

func (r *REPL) cmdMoveRow(args []string) {
	if !r.ensureSelection() {
		return
	}
	from, to, ok := parseFromTo(args, "moverow")
	if !ok {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.MoveRow(r.doc, sel, from, to, false))
}

func (r *REPL) cmdMoveCol(args []string) {
	if !r.ensureSelection() {
		return
	}
	from, to, ok := parseFromTo(args, "movecol")
	if !ok {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.MoveColumn(r.doc, sel, from, to, false))
}

func parseFromTo(args []string, cmd string) (from, to int, ok bool) {
	if len(args) < 2 {
		fmt.Printf("Usage: %s <from> <to>\n", cmd)
		return 0, 0, false
	}
	from, err1 := strconv.Atoi(args[0])
	to, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("From and to must be integers")
		return 0, 0, false
	}
	return from, to, true
}

func (r *REPL) cmdMerge() {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.MergeCells(r.doc, sel))
}

func (r *REPL) cmdSplit() {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.SplitCell(r.schema, r.doc, sel))
}

func (r *REPL) cmdHeaderRow() {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.ToggleHeaderRow(r.schema, r.doc, sel))
}

func (r *REPL) cmdHeaderCol() {
	if !r.ensureSelection() {
		return
	}
	sel, err := r.selection()
	if err != nil {
		fmt.Printf("Selection error: %v\n", err)
		return
	}
	r.apply(lattice.ToggleHeaderColumn(r.schema, r.doc, sel))
}

func (r *REPL) cmdWidths(args []string) {
	if !r.ensureTable() {
		return
	}

	table, _ := r.table()
	if len(args) == 0 {
		widths, err := lattice.ColumnWidths(table)
		if err != nil {
			fmt.Printf("Widths error: %v\n", err)
			return
		}
		fmt.Printf("Stored:      %v\n", widths)
		fmt.Printf("Distributed: %v\n", lattice.Distribute(widths))
		return
	}

	widths := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			fmt.Printf("Invalid width: %v\n", err)
			return
		}
		widths[i] = v
	}

	rect, err := r.fullRect()
	if err != nil {
		fmt.Printf("Map error: %v\n", err)
		return
	}
	tr := lattice.NewTransaction(r.doc)
	if err := lattice.SetColumnWidths(tr, rect, lattice.Distribute(widths)); err != nil {
		fmt.Printf("Widths error: %v\n", err)
		return
	}
	r.doc = tr.Doc()
	fmt.Printf("Widths set: %v\n", lattice.Distribute(widths))
}

func (r *REPL) cmdDrag(args []string) {
	if !r.ensureTable() {
		return
	}

	if len(args) < 2 {
		fmt.Println("Usage: drag <col> <delta>")
		return
	}
	col, err1 := strconv.Atoi(args[0])
	delta, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		fmt.Println("Col must be an integer, delta a number")
		return
	}

	rect, err := r.fullRect()
	if err != nil {
		fmt.Printf("Map error: %v\n", err)
		return
	}

	// Demo geometry: every column starts at 120 px.
	pixels := make([]float64, rect.Map.Width)
	for i := range pixels {
		pixels[i] = 120
	}
	tableWidth := 120 * float64(rect.Map.Width)

	drag, err := lattice.StartColumnDrag(0, col, pixels, tableWidth, lattice.ResizeOptions{})
	if err != nil {
		fmt.Printf("Drag error: %v\n", err)
		return
	}
	moved, _, err := drag.Move(delta)
	if err != nil {
		fmt.Printf("Drag error: %v\n", err)
		return
	}
	fmt.Printf("Pixel widths: %v\n", moved)

	tr := lattice.NewTransaction(r.doc)
	if err := drag.Commit(tr, rect, delta); err != nil {
		fmt.Printf("Commit error: %v\n", err)
		return
	}
	r.doc = tr.Doc()

	table, _ := r.table()
	widths, err := lattice.ColumnWidths(table)
	if err != nil {
		fmt.Printf("Widths error: %v\n", err)
		return
	}
	fmt.Printf("Committed percentages: %v\n", widths)
}

func (r *REPL) cmdFix() {
	if !r.ensureTable() {
		return
	}

	table, tableStart := r.table()
	tr := lattice.NewTransaction(r.doc)
	changed, err := lattice.FixTable(r.schema, tr, table, tableStart-1)
	if err != nil {
		fmt.Printf("Fix error: %v\n", err)
		return
	}
	if !changed {
		fmt.Println("Nothing to fix")
		return
	}
	r.doc = tr.Doc()
	fmt.Println("Table repaired")
	r.cmdShow()
}

func (r *REPL) cmdTrace(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: trace on|off")
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		lattice.EnableTrace(os.Stderr)
		fmt.Println("Trace logging enabled")
	case "off":
		lattice.DisableTrace()
		fmt.Println("Trace logging disabled")
	default:
		fmt.Println("Usage: trace on|off")
	}
}

// fullRect builds a TableRect covering the whole table.
func (r *REPL) fullRect() (*lattice.TableRect, error) {
	table, tableStart := r.table()
	m, err := lattice.MapOf(table)
	if err != nil {
		return nil, err
	}
	return &lattice.TableRect{
		Rect:       lattice.Rect{Left: 0, Top: 0, Right: m.Width, Bottom: m.Height},
		Table:      table,
		TableStart: tableStart,
		Map:        m,
	}, nil
}

func (r *REPL) ensureTable() bool {
	if r.doc == nil {
		fmt.Println("No table is open. Use 'new <rows> <cols>' to create one.")
		return false
	}
	return true
}

func (r *REPL) ensureSelection() bool {
	return r.ensureTable()
}

func cellText(cell *lattice.Node) string {
	var b strings.Builder
	var walk func(n *lattice.Node)
	walk = func(n *lattice.Node) {
		if n.Type.Role == lattice.RoleText {
			b.WriteString(n.Text)
			return
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(cell)
	return b.String()
}

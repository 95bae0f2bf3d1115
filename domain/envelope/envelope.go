package envelope

import (
	"encoding/json"
)

// Kind discriminates the envelope variants. It mirrors the artifact kinds
// that carry structured JSON content.
type Kind string

const (
	KindTable    Kind = "table"
	KindDiagram  Kind = "diagram"
	KindTimeline Kind = "timeline"
	KindChart    Kind = "chart"
	KindProse    Kind = "prose"
	KindDialogue Kind = "dialogue"
	KindLore     Kind = "lore"
	KindCode     Kind = "code"
	KindMap      Kind = "map"
)

// IsTextKind reports whether the kind stores block-based markdown content
func (k Kind) IsTextKind() bool {
	switch k {
	case KindProse, KindDialogue, KindLore, KindCode, KindMap:
		return true
	}
	return false
}

// IsValid reports whether the kind is a known envelope discriminator
func (k Kind) IsValid() bool {
	switch k {
	case KindTable, KindDiagram, KindTimeline, KindChart:
		return true
	}
	return k.IsTextKind()
}

// CellValue is a typed table cell. The value is kept as raw JSON so that a
// parse/serialize round trip is byte-exact.
type CellValue struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v"`
}

// TextCell builds a text-typed cell
func TextCell(s string) CellValue {
	raw, _ := json.Marshal(s)
	return CellValue{T: "text", V: raw}
}

// NumberCell builds a number-typed cell
func NumberCell(n float64) CellValue {
	raw, _ := json.Marshal(n)
	return CellValue{T: "number", V: raw}
}

// BoolCell builds a boolean-typed cell
func BoolCell(b bool) CellValue {
	raw, _ := json.Marshal(b)
	return CellValue{T: "bool", V: raw}
}

// Column describes a table column
type Column struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Row maps column id to cell value
type Row map[string]CellValue

// Table holds the table variant: columns and rows, each as a map paired with
// an explicit order array
type Table struct {
	ColumnsByID map[string]Column `json:"columnsById"`
	ColumnOrder []string          `json:"columnOrder"`
	RowsByID    map[string]Row    `json:"rowsById"`
	RowOrder    []string          `json:"rowOrder"`
}

// DiagramNode is a node in a diagram envelope
type DiagramNode struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Shape string  `json:"shape,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
}

// DiagramEdge connects two diagram nodes
type DiagramEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Diagram holds the diagram variant
type Diagram struct {
	NodesByID map[string]DiagramNode `json:"nodesById"`
	NodeOrder []string               `json:"nodeOrder"`
	EdgesByID map[string]DiagramEdge `json:"edgesById"`
	EdgeOrder []string               `json:"edgeOrder"`
}

// TimelineItem is an entry on a timeline
type TimelineItem struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Timeline holds the timeline variant
type Timeline struct {
	ItemsByID map[string]TimelineItem `json:"itemsById"`
	ItemOrder []string                `json:"itemOrder"`
}

// ChartPoint is a point-series entry
type ChartPoint struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// ChartLink is a link-series entry (e.g. sankey/relationship charts)
type ChartLink struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value,omitempty"`
}

// Chart holds the chart variant: either a point series or a link series
type Chart struct {
	PointsByID map[string]ChartPoint `json:"pointsById,omitempty"`
	PointOrder []string              `json:"pointOrder,omitempty"`
	LinksByID  map[string]ChartLink  `json:"linksById,omitempty"`
	LinkOrder  []string              `json:"linkOrder,omitempty"`
}

// TextBlock is a markdown block in a text-bearing envelope
type TextBlock struct {
	ID       string `json:"id"`
	Markdown string `json:"markdown"`
}

// Text holds the block-based variant shared by prose, dialogue, lore, code and map
type Text struct {
	BlocksByID map[string]TextBlock `json:"blocksById"`
	BlockOrder []string             `json:"blockOrder"`
}

// Envelope is the typed, structured representation of an artifact's content.
// Exactly one variant pointer is set, matching Kind.
type Envelope struct {
	Kind     Kind
	Table    *Table
	Diagram  *Diagram
	Timeline *Timeline
	Chart    *Chart
	Text     *Text
}

// NewTable creates an empty table envelope
func NewTable() *Envelope {
	return &Envelope{
		Kind: KindTable,
		Table: &Table{
			ColumnsByID: map[string]Column{},
			ColumnOrder: []string{},
			RowsByID:    map[string]Row{},
			RowOrder:    []string{},
		},
	}
}

// NewText creates an empty block envelope of the given text kind
func NewText(kind Kind) *Envelope {
	return &Envelope{
		Kind: kind,
		Text: &Text{
			BlocksByID: map[string]TextBlock{},
			BlockOrder: []string{},
		},
	}
}

// Rows returns the table rows in display order. Nil for non-table envelopes.
func (e *Envelope) Rows() []Row {
	if e.Table == nil {
		return nil
	}
	rows := make([]Row, 0, len(e.Table.RowOrder))
	for _, id := range e.Table.RowOrder {
		rows = append(rows, e.Table.RowsByID[id])
	}
	return rows
}

// Columns returns the table columns in display order. Nil for non-table envelopes.
func (e *Envelope) Columns() []Column {
	if e.Table == nil {
		return nil
	}
	cols := make([]Column, 0, len(e.Table.ColumnOrder))
	for _, id := range e.Table.ColumnOrder {
		cols = append(cols, e.Table.ColumnsByID[id])
	}
	return cols
}

// Nodes returns the diagram nodes in display order
func (e *Envelope) Nodes() []DiagramNode {
	if e.Diagram == nil {
		return nil
	}
	nodes := make([]DiagramNode, 0, len(e.Diagram.NodeOrder))
	for _, id := range e.Diagram.NodeOrder {
		nodes = append(nodes, e.Diagram.NodesByID[id])
	}
	return nodes
}

// Edges returns the diagram edges in display order
func (e *Envelope) Edges() []DiagramEdge {
	if e.Diagram == nil {
		return nil
	}
	edges := make([]DiagramEdge, 0, len(e.Diagram.EdgeOrder))
	for _, id := range e.Diagram.EdgeOrder {
		edges = append(edges, e.Diagram.EdgesByID[id])
	}
	return edges
}

// Items returns the timeline items in display order
func (e *Envelope) Items() []TimelineItem {
	if e.Timeline == nil {
		return nil
	}
	items := make([]TimelineItem, 0, len(e.Timeline.ItemOrder))
	for _, id := range e.Timeline.ItemOrder {
		items = append(items, e.Timeline.ItemsByID[id])
	}
	return items
}

// Points returns the chart point series in display order
func (e *Envelope) Points() []ChartPoint {
	if e.Chart == nil {
		return nil
	}
	points := make([]ChartPoint, 0, len(e.Chart.PointOrder))
	for _, id := range e.Chart.PointOrder {
		points = append(points, e.Chart.PointsByID[id])
	}
	return points
}

// Links returns the chart link series in display order
func (e *Envelope) Links() []ChartLink {
	if e.Chart == nil {
		return nil
	}
	links := make([]ChartLink, 0, len(e.Chart.LinkOrder))
	for _, id := range e.Chart.LinkOrder {
		links = append(links, e.Chart.LinksByID[id])
	}
	return links
}

// Blocks returns the text blocks in display order
func (e *Envelope) Blocks() []TextBlock {
	if e.Text == nil {
		return nil
	}
	blocks := make([]TextBlock, 0, len(e.Text.BlockOrder))
	for _, id := range e.Text.BlockOrder {
		blocks = append(blocks, e.Text.BlocksByID[id])
	}
	return blocks
}

// Clone returns a deep copy. Appliers mutate the copy, never the original.
func (e *Envelope) Clone() *Envelope {
	if e == nil {
		return nil
	}
	out := &Envelope{Kind: e.Kind}
	if e.Table != nil {
		t := &Table{
			ColumnsByID: make(map[string]Column, len(e.Table.ColumnsByID)),
			ColumnOrder: append([]string(nil), e.Table.ColumnOrder...),
			RowsByID:    make(map[string]Row, len(e.Table.RowsByID)),
			RowOrder:    append([]string(nil), e.Table.RowOrder...),
		}
		for id, col := range e.Table.ColumnsByID {
			t.ColumnsByID[id] = col
		}
		for id, row := range e.Table.RowsByID {
			cloned := make(Row, len(row))
			for colID, cell := range row {
				cloned[colID] = CellValue{T: cell.T, V: append(json.RawMessage(nil), cell.V...)}
			}
			t.RowsByID[id] = cloned
		}
		out.Table = t
	}
	if e.Diagram != nil {
		d := &Diagram{
			NodesByID: make(map[string]DiagramNode, len(e.Diagram.NodesByID)),
			NodeOrder: append([]string(nil), e.Diagram.NodeOrder...),
			EdgesByID: make(map[string]DiagramEdge, len(e.Diagram.EdgesByID)),
			EdgeOrder: append([]string(nil), e.Diagram.EdgeOrder...),
		}
		for id, n := range e.Diagram.NodesByID {
			d.NodesByID[id] = n
		}
		for id, ed := range e.Diagram.EdgesByID {
			d.EdgesByID[id] = ed
		}
		out.Diagram = d
	}
	if e.Timeline != nil {
		tl := &Timeline{
			ItemsByID: make(map[string]TimelineItem, len(e.Timeline.ItemsByID)),
			ItemOrder: append([]string(nil), e.Timeline.ItemOrder...),
		}
		for id, it := range e.Timeline.ItemsByID {
			tl.ItemsByID[id] = it
		}
		out.Timeline = tl
	}
	if e.Chart != nil {
		c := &Chart{}
		if e.Chart.PointsByID != nil {
			c.PointsByID = make(map[string]ChartPoint, len(e.Chart.PointsByID))
			for id, p := range e.Chart.PointsByID {
				c.PointsByID[id] = p
			}
			c.PointOrder = append([]string(nil), e.Chart.PointOrder...)
		}
		if e.Chart.LinksByID != nil {
			c.LinksByID = make(map[string]ChartLink, len(e.Chart.LinksByID))
			for id, l := range e.Chart.LinksByID {
				c.LinksByID[id] = l
			}
			c.LinkOrder = append([]string(nil), e.Chart.LinkOrder...)
		}
		out.Chart = c
	}
	if e.Text != nil {
		tx := &Text{
			BlocksByID: make(map[string]TextBlock, len(e.Text.BlocksByID)),
			BlockOrder: append([]string(nil), e.Text.BlockOrder...),
		}
		for id, b := range e.Text.BlocksByID {
			tx.BlocksByID[id] = b
		}
		out.Text = tx
	}
	return out
}

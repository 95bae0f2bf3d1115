package envelope

import (
	"encoding/json"
	"fmt"

	pkgerrors "mythos-backend/pkg/errors"
)

// wire structs carry the persisted JSON shape: the kind discriminator under
// "type" plus the variant's map/order pairs inlined.

type tableWire struct {
	Type Kind `json:"type"`
	Table
}

type diagramWire struct {
	Type Kind `json:"type"`
	Diagram
}

type timelineWire struct {
	Type Kind `json:"type"`
	Timeline
}

type chartWire struct {
	Type Kind `json:"type"`
	Chart
}

type textWire struct {
	Type Kind `json:"type"`
	Text
}

// Parse decodes a raw JSON blob into a typed envelope. Any failure is a
// ParseFailure; callers degrade to rendering the raw text instead of crashing.
func Parse(raw string) (*Envelope, error) {
	var probe struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return nil, pkgerrors.NewParseFailure("malformed envelope JSON", err)
	}
	if !probe.Type.IsValid() {
		return nil, pkgerrors.NewParseFailure(fmt.Sprintf("unknown envelope type %q", probe.Type), nil)
	}

	env := &Envelope{Kind: probe.Type}

	switch {
	case probe.Type == KindTable:
		var w tableWire
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, pkgerrors.NewParseFailure("malformed table envelope", err)
		}
		env.Table = &w.Table
	case probe.Type == KindDiagram:
		var w diagramWire
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, pkgerrors.NewParseFailure("malformed diagram envelope", err)
		}
		env.Diagram = &w.Diagram
	case probe.Type == KindTimeline:
		var w timelineWire
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, pkgerrors.NewParseFailure("malformed timeline envelope", err)
		}
		env.Timeline = &w.Timeline
	case probe.Type == KindChart:
		var w chartWire
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, pkgerrors.NewParseFailure("malformed chart envelope", err)
		}
		env.Chart = &w.Chart
	case probe.Type.IsTextKind():
		var w textWire
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			return nil, pkgerrors.NewParseFailure("malformed text envelope", err)
		}
		env.Text = &w.Text
	}

	if err := Validate(env); err != nil {
		return nil, err
	}
	return env, nil
}

// Serialize encodes an envelope back to its wire form. It is the exact
// inverse of Parse for any envelope Parse accepted.
func Serialize(e *Envelope) (string, error) {
	if e == nil {
		return "", pkgerrors.NewValidationError("envelope cannot be nil")
	}
	if err := Validate(e); err != nil {
		return "", err
	}

	var payload interface{}
	switch {
	case e.Table != nil:
		payload = tableWire{Type: e.Kind, Table: *e.Table}
	case e.Diagram != nil:
		payload = diagramWire{Type: e.Kind, Diagram: *e.Diagram}
	case e.Timeline != nil:
		payload = timelineWire{Type: e.Kind, Timeline: *e.Timeline}
	case e.Chart != nil:
		payload = chartWire{Type: e.Kind, Chart: *e.Chart}
	case e.Text != nil:
		payload = textWire{Type: e.Kind, Text: *e.Text}
	default:
		return "", pkgerrors.NewValidationError("envelope has no variant payload")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", pkgerrors.NewInternalError("failed to serialize envelope").WithCause(err)
	}
	return string(raw), nil
}

// Validate checks the structural invariants of an envelope. Every order array
// must be a permutation of its paired map's keys; a mismatch is corruption and
// is rejected, never silently repaired.
func Validate(e *Envelope) error {
	if e == nil {
		return pkgerrors.NewValidationError("envelope cannot be nil")
	}
	if !e.Kind.IsValid() {
		return pkgerrors.NewParseFailure(fmt.Sprintf("unknown envelope type %q", e.Kind), nil)
	}

	variants := 0
	if e.Table != nil {
		variants++
		if e.Kind != KindTable {
			return pkgerrors.NewParseFailure("table payload under non-table kind", nil)
		}
		colKeys := make([]string, 0, len(e.Table.ColumnsByID))
		for id := range e.Table.ColumnsByID {
			colKeys = append(colKeys, id)
		}
		if err := checkPair("columnOrder", e.Table.ColumnOrder, colKeys); err != nil {
			return err
		}
		rowKeys := make([]string, 0, len(e.Table.RowsByID))
		for id := range e.Table.RowsByID {
			rowKeys = append(rowKeys, id)
		}
		if err := checkPair("rowOrder", e.Table.RowOrder, rowKeys); err != nil {
			return err
		}
	}
	if e.Diagram != nil {
		variants++
		if e.Kind != KindDiagram {
			return pkgerrors.NewParseFailure("diagram payload under non-diagram kind", nil)
		}
		nodeKeys := make([]string, 0, len(e.Diagram.NodesByID))
		for id := range e.Diagram.NodesByID {
			nodeKeys = append(nodeKeys, id)
		}
		if err := checkPair("nodeOrder", e.Diagram.NodeOrder, nodeKeys); err != nil {
			return err
		}
		edgeKeys := make([]string, 0, len(e.Diagram.EdgesByID))
		for id := range e.Diagram.EdgesByID {
			edgeKeys = append(edgeKeys, id)
		}
		if err := checkPair("edgeOrder", e.Diagram.EdgeOrder, edgeKeys); err != nil {
			return err
		}
	}
	if e.Timeline != nil {
		variants++
		if e.Kind != KindTimeline {
			return pkgerrors.NewParseFailure("timeline payload under non-timeline kind", nil)
		}
		itemKeys := make([]string, 0, len(e.Timeline.ItemsByID))
		for id := range e.Timeline.ItemsByID {
			itemKeys = append(itemKeys, id)
		}
		if err := checkPair("itemOrder", e.Timeline.ItemOrder, itemKeys); err != nil {
			return err
		}
	}
	if e.Chart != nil {
		variants++
		if e.Kind != KindChart {
			return pkgerrors.NewParseFailure("chart payload under non-chart kind", nil)
		}
		if len(e.Chart.PointsByID) > 0 && len(e.Chart.LinksByID) > 0 {
			return pkgerrors.NewParseFailure("chart cannot carry both point and link series", nil)
		}
		pointKeys := make([]string, 0, len(e.Chart.PointsByID))
		for id := range e.Chart.PointsByID {
			pointKeys = append(pointKeys, id)
		}
		if err := checkPair("pointOrder", e.Chart.PointOrder, pointKeys); err != nil {
			return err
		}
		linkKeys := make([]string, 0, len(e.Chart.LinksByID))
		for id := range e.Chart.LinksByID {
			linkKeys = append(linkKeys, id)
		}
		if err := checkPair("linkOrder", e.Chart.LinkOrder, linkKeys); err != nil {
			return err
		}
	}
	if e.Text != nil {
		variants++
		if !e.Kind.IsTextKind() {
			return pkgerrors.NewParseFailure("block payload under non-text kind", nil)
		}
		blockKeys := make([]string, 0, len(e.Text.BlocksByID))
		for id := range e.Text.BlocksByID {
			blockKeys = append(blockKeys, id)
		}
		if err := checkPair("blockOrder", e.Text.BlockOrder, blockKeys); err != nil {
			return err
		}
	}

	if variants != 1 {
		return pkgerrors.NewParseFailure("envelope must carry exactly one variant payload", nil)
	}
	return nil
}

// checkPair verifies that order is a permutation of keys
func checkPair(field string, order []string, keys []string) error {
	if len(order) != len(keys) {
		return pkgerrors.NewParseFailure(
			fmt.Sprintf("%s has %d entries but the paired map has %d", field, len(order), len(keys)), nil)
	}
	seen := make(map[string]bool, len(keys))
	for _, id := range keys {
		seen[id] = true
	}
	inOrder := make(map[string]bool, len(order))
	for _, id := range order {
		if !seen[id] {
			return pkgerrors.NewParseFailure(fmt.Sprintf("%s references id %q missing from the paired map", field, id), nil)
		}
		if inOrder[id] {
			return pkgerrors.NewParseFailure(fmt.Sprintf("%s contains duplicate id %q", field, id), nil)
		}
		inOrder[id] = true
	}
	return nil
}

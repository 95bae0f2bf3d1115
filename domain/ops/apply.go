package ops

import (
	"mythos-backend/domain/envelope"

	pkgerrors "mythos-backend/pkg/errors"
)

// Apply computes the envelope that results from an operation. It is pure: the
// input envelope is never mutated, and the same inputs always yield the same
// output. The boolean reports whether anything actually changed; an addressed
// row or column that does not exist makes cell updates a changed=false no-op
// rather than an error.
//
// Lookups are O(1) through the *ById maps; only reorder pays O(n) to check
// the permutation.
func Apply(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	if env == nil {
		return nil, false, pkgerrors.NewValidationError("envelope cannot be nil")
	}
	if err := op.Validate(); err != nil {
		return nil, false, err
	}

	switch op.Kind {
	case TableCellUpdate:
		return applyCellUpdate(env, op)
	case TableRowAdd:
		return applyRowAdd(env, op)
	case TableRowsRemove:
		return applyRowsRemove(env, op)
	case TableRowReorder:
		return applyRowReorder(env, op)
	case TableColumnAdd:
		return applyColumnAdd(env, op)
	case TableColumnsRemove:
		return applyColumnsRemove(env, op)
	case TableColumnReorder:
		return applyColumnReorder(env, op)
	case TextBlockUpdate:
		return applyBlockUpdate(env, op)
	}
	return nil, false, pkgerrors.NewValidationError("unknown operation kind: " + string(op.Kind))
}

func requireTable(env *envelope.Envelope, op Operation) (*envelope.Table, error) {
	if env.Kind != envelope.KindTable || env.Table == nil {
		return nil, pkgerrors.NewTypeMismatchError(string(op.Kind), string(env.Kind))
	}
	return env.Table, nil
}

func applyCellUpdate(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	tbl, err := requireTable(env, op)
	if err != nil {
		return nil, false, err
	}

	_, rowExists := tbl.RowsByID[op.RowID]
	_, colExists := tbl.ColumnsByID[op.ColumnID]
	if !rowExists || !colExists {
		// Absent target: the edit lands nowhere. Return the envelope
		// unchanged; the caller surfaces that nothing happened.
		return env, false, nil
	}

	next := env.Clone()
	next.Table.RowsByID[op.RowID][op.ColumnID] = *op.Value
	return next, true, nil
}

func applyRowAdd(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	tbl, err := requireTable(env, op)
	if err != nil {
		return nil, false, err
	}

	if _, exists := tbl.RowsByID[op.Row.RowID]; exists {
		return nil, false, pkgerrors.NewDuplicateIDError(op.Row.RowID)
	}

	next := env.Clone()
	row := make(envelope.Row, len(op.Row.Cells))
	for colID, cell := range op.Row.Cells {
		row[colID] = cell
	}
	if next.Table.RowsByID == nil {
		next.Table.RowsByID = map[string]envelope.Row{}
	}
	next.Table.RowsByID[op.Row.RowID] = row
	next.Table.RowOrder = append(next.Table.RowOrder, op.Row.RowID)
	return next, true, nil
}

func applyRowsRemove(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	tbl, err := requireTable(env, op)
	if err != nil {
		return nil, false, err
	}

	toRemove := make(map[string]bool, len(op.IDs))
	found := false
	for _, id := range op.IDs {
		toRemove[id] = true
		if _, exists := tbl.RowsByID[id]; exists {
			found = true
		}
	}
	if !found {
		// Removal is idempotent: unknown ids are ignored.
		return env, false, nil
	}

	next := env.Clone()
	order := next.Table.RowOrder[:0]
	for _, id := range next.Table.RowOrder {
		if toRemove[id] {
			delete(next.Table.RowsByID, id)
			continue
		}
		order = append(order, id)
	}
	next.Table.RowOrder = order
	return next, true, nil
}

func applyRowReorder(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	tbl, err := requireTable(env, op)
	if err != nil {
		return nil, false, err
	}

	if err := checkPermutation(op.Order, tbl.RowOrder); err != nil {
		return nil, false, err
	}

	next := env.Clone()
	next.Table.RowOrder = append([]string(nil), op.Order...)
	return next, true, nil
}

func applyColumnAdd(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	tbl, err := requireTable(env, op)
	if err != nil {
		return nil, false, err
	}

	if _, exists := tbl.ColumnsByID[op.Column.ID]; exists {
		return nil, false, pkgerrors.NewDuplicateIDError(op.Column.ID)
	}

	next := env.Clone()
	if next.Table.ColumnsByID == nil {
		next.Table.ColumnsByID = map[string]envelope.Column{}
	}
	next.Table.ColumnsByID[op.Column.ID] = *op.Column
	next.Table.ColumnOrder = append(next.Table.ColumnOrder, op.Column.ID)
	return next, true, nil
}

func applyColumnsRemove(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	tbl, err := requireTable(env, op)
	if err != nil {
		return nil, false, err
	}

	toRemove := make(map[string]bool, len(op.IDs))
	found := false
	for _, id := range op.IDs {
		toRemove[id] = true
		if _, exists := tbl.ColumnsByID[id]; exists {
			found = true
		}
	}
	if !found {
		return env, false, nil
	}

	next := env.Clone()
	order := next.Table.ColumnOrder[:0]
	for _, id := range next.Table.ColumnOrder {
		if toRemove[id] {
			delete(next.Table.ColumnsByID, id)
			continue
		}
		order = append(order, id)
	}
	next.Table.ColumnOrder = order

	// Removing a column also drops its cells from every row.
	for rowID, row := range next.Table.RowsByID {
		for colID := range row {
			if toRemove[colID] {
				delete(next.Table.RowsByID[rowID], colID)
			}
		}
	}
	return next, true, nil
}

func applyColumnReorder(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	tbl, err := requireTable(env, op)
	if err != nil {
		return nil, false, err
	}

	if err := checkPermutation(op.Order, tbl.ColumnOrder); err != nil {
		return nil, false, err
	}

	next := env.Clone()
	next.Table.ColumnOrder = append([]string(nil), op.Order...)
	return next, true, nil
}

func applyBlockUpdate(env *envelope.Envelope, op Operation) (*envelope.Envelope, bool, error) {
	if !env.Kind.IsTextKind() || env.Text == nil {
		return nil, false, pkgerrors.NewTypeMismatchError(string(op.Kind), string(env.Kind))
	}

	block, exists := env.Text.BlocksByID[op.BlockID]
	if !exists {
		return env, false, nil
	}
	if block.Markdown == op.Markdown {
		return env, false, nil
	}

	next := env.Clone()
	block.Markdown = op.Markdown
	next.Text.BlocksByID[op.BlockID] = block
	return next, true, nil
}

// checkPermutation verifies the replacement order carries exactly the same id
// set as the current order. Reordering must never add or drop entries.
func checkPermutation(replacement, current []string) error {
	if len(replacement) != len(current) {
		return pkgerrors.NewInvalidReorderError("replacement order has wrong length")
	}
	existing := make(map[string]bool, len(current))
	for _, id := range current {
		existing[id] = true
	}
	seen := make(map[string]bool, len(replacement))
	for _, id := range replacement {
		if !existing[id] {
			return pkgerrors.NewInvalidReorderError("replacement order introduces id " + id)
		}
		if seen[id] {
			return pkgerrors.NewInvalidReorderError("replacement order repeats id " + id)
		}
		seen[id] = true
	}
	return nil
}

package ops

import (
	"mythos-backend/domain/envelope"

	pkgerrors "mythos-backend/pkg/errors"
)

// Kind names a mutation intent. Targets are addressed by id, never by index;
// reorder carries a full replacement order array.
type Kind string

const (
	TableCellUpdate    Kind = "table.cell.update"
	TableRowAdd        Kind = "table.row.add"
	TableRowsRemove    Kind = "table.rows.remove"
	TableRowReorder    Kind = "table.row.reorder"
	TableColumnAdd     Kind = "table.column.add"
	TableColumnsRemove Kind = "table.columns.remove"
	TableColumnReorder Kind = "table.column.reorder"
	TextBlockUpdate    Kind = "text.block.update"
)

// NewRow is the payload for table.row.add
type NewRow struct {
	RowID string                        `json:"rowId"`
	Cells map[string]envelope.CellValue `json:"cells"`
}

// Operation is a discrete mutation intent applied to an envelope. Only the
// fields relevant to Kind are populated; Validate enforces that.
type Operation struct {
	Kind Kind `json:"kind"`

	// table.cell.update
	RowID    string              `json:"rowId,omitempty"`
	ColumnID string              `json:"columnId,omitempty"`
	Value    *envelope.CellValue `json:"value,omitempty"`

	// table.row.add / table.column.add
	Row    *NewRow          `json:"row,omitempty"`
	Column *envelope.Column `json:"column,omitempty"`

	// table.rows.remove / table.columns.remove
	IDs []string `json:"ids,omitempty"`

	// table.row.reorder / table.column.reorder
	Order []string `json:"order,omitempty"`

	// text.block.update
	BlockID  string `json:"blockId,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// Validate checks that the operation carries the payload its kind requires.
// Structural validation of the payload against an envelope happens in Apply.
func (op Operation) Validate() error {
	switch op.Kind {
	case TableCellUpdate:
		if op.RowID == "" || op.ColumnID == "" || op.Value == nil {
			return pkgerrors.NewValidationError("cell update requires rowId, columnId and value")
		}
	case TableRowAdd:
		if op.Row == nil || op.Row.RowID == "" {
			return pkgerrors.NewValidationError("row add requires a row with a rowId")
		}
	case TableRowsRemove, TableColumnsRemove:
		if len(op.IDs) == 0 {
			return pkgerrors.NewValidationError("remove requires at least one id")
		}
	case TableRowReorder, TableColumnReorder:
		if op.Order == nil {
			return pkgerrors.NewValidationError("reorder requires a replacement order")
		}
	case TableColumnAdd:
		if op.Column == nil || op.Column.ID == "" {
			return pkgerrors.NewValidationError("column add requires a column with an id")
		}
	case TextBlockUpdate:
		if op.BlockID == "" {
			return pkgerrors.NewValidationError("block update requires blockId")
		}
	default:
		return pkgerrors.NewValidationError("unknown operation kind: " + string(op.Kind))
	}
	return nil
}

package domain

// TargetKind identifies what a drag endpoint id resolved to.
type TargetKind int

// TargetNotFound and related constants enumerate resolution outcomes.
const (
	TargetNotFound TargetKind = iota
	TargetColumn
	TargetItem
)

// String returns a stable label for logs and status lines.
func (k TargetKind) String() string {
	switch k {
	case TargetColumn:
		return "column"
	case TargetItem:
		return "item"
	default:
		return "not-found"
	}
}

// Target is the result of resolving one id against the board.
// ColumnIndex is the owning column for both kinds; ItemIndex is -1 unless Kind is TargetItem.
type Target struct {
	Kind        TargetKind
	ID          string
	ColumnID    string
	ColumnIndex int
	ItemIndex   int
}

// Found reports whether the id resolved to a column or an item.
func (t Target) Found() bool {
	return t.Kind != TargetNotFound
}

// notFound builds an unresolved target for id.
func notFound(id string) Target {
	return Target{Kind: TargetNotFound, ID: id, ColumnIndex: -1, ItemIndex: -1}
}

package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Board is an immutable ordered set of columns. Every transition returns a new Board
// and leaves the receiver untouched, so a snapshot can be shared freely.
type Board struct {
	columns []Column
}

// NewBoard validates the column set and the one-owner-per-item invariant.
func NewBoard(columns []Column) (Board, error) {
	seenColumns := map[string]struct{}{}
	seenItems := map[string]struct{}{}
	out := make([]Column, 0, len(columns))
	for idx, column := range columns {
		id := strings.TrimSpace(column.ID)
		if id == "" {
			return Board{}, fmt.Errorf("column %d: %w", idx, ErrInvalidID)
		}
		if strings.TrimSpace(column.Title) == "" {
			return Board{}, fmt.Errorf("column %q: %w", id, ErrInvalidTitle)
		}
		if _, ok := seenColumns[id]; ok {
			return Board{}, fmt.Errorf("column %q: %w", id, ErrDuplicateID)
		}
		seenColumns[id] = struct{}{}
		for _, item := range column.Items {
			if _, ok := seenItems[item.ID]; ok {
				return Board{}, fmt.Errorf("item %q: %w", item.ID, ErrDuplicateID)
			}
			if _, ok := seenColumns[item.ID]; ok {
				return Board{}, fmt.Errorf("item %q shadows a column: %w", item.ID, ErrDuplicateID)
			}
			seenItems[item.ID] = struct{}{}
		}
		out = append(out, column.clone())
	}
	for _, column := range out {
		if _, ok := seenItems[column.ID]; ok {
			return Board{}, fmt.Errorf("column %q shadows an item: %w", column.ID, ErrDuplicateID)
		}
	}
	return Board{columns: out}, nil
}

// Columns returns a deep copy of the board columns in display order.
func (b Board) Columns() []Column {
	out := make([]Column, 0, len(b.columns))
	for _, column := range b.columns {
		out = append(out, column.clone())
	}
	return out
}

// Len returns the number of columns.
func (b Board) Len() int {
	return len(b.columns)
}

// Column returns a copy of the column with id.
func (b Board) Column(id string) (Column, bool) {
	for _, column := range b.columns {
		if column.ID == id {
			return column.clone(), true
		}
	}
	return Column{}, false
}

// Item returns the item with id.
func (b Board) Item(id string) (Item, bool) {
	target := b.Resolve(id)
	if target.Kind != TargetItem {
		return Item{}, false
	}
	return b.columns[target.ColumnIndex].Items[target.ItemIndex], true
}

// ItemIDs returns every item id in column order then item order.
func (b Board) ItemIDs() []string {
	out := []string{}
	for _, column := range b.columns {
		for _, item := range column.Items {
			out = append(out, item.ID)
		}
	}
	return out
}

// Resolve looks an id up as a column first, then as an item.
func (b Board) Resolve(id string) Target {
	if strings.TrimSpace(id) == "" {
		return notFound(id)
	}
	for colIdx, column := range b.columns {
		if column.ID == id {
			return Target{Kind: TargetColumn, ID: id, ColumnID: column.ID, ColumnIndex: colIdx, ItemIndex: -1}
		}
	}
	for colIdx, column := range b.columns {
		if itemIdx := column.IndexOf(id); itemIdx >= 0 {
			return Target{Kind: TargetItem, ID: id, ColumnID: column.ID, ColumnIndex: colIdx, ItemIndex: itemIdx}
		}
	}
	return notFound(id)
}

// AppendItems returns a board with items appended, in order, to the end of one column.
// It reports false when the column is unknown, items is empty, or an id is already used
// on the board or repeated within items.
func (b Board) AppendItems(columnID string, items []Item) (Board, bool) {
	target := b.Resolve(columnID)
	if target.Kind != TargetColumn || len(items) == 0 {
		return b, false
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" || b.Resolve(item.ID).Found() {
			return b, false
		}
		if _, dup := seen[item.ID]; dup {
			return b, false
		}
		seen[item.ID] = struct{}{}
	}
	next := b.withColumnsCopied()
	column := &next.columns[target.ColumnIndex]
	column.Items = append(column.Items, items...)
	return next, true
}

// MoveAcross relocates activeID into the column that overID resolves to while a drag hovers.
// Moves inside one column are a pass-through here and are settled by Reorder on drop.
// Dropping over a column appends; dropping over an item inserts before it.
func (b Board) MoveAcross(activeID, overID string) (Board, bool) {
	if activeID == overID {
		return b, false
	}
	active := b.Resolve(activeID)
	over := b.Resolve(overID)
	if active.Kind != TargetItem || !over.Found() {
		return b, false
	}
	if active.ColumnIndex == over.ColumnIndex {
		return b, false
	}

	destItems := b.columns[over.ColumnIndex].Items
	insertAt := len(destItems)
	if over.Kind == TargetItem && over.ItemIndex >= 0 {
		insertAt = over.ItemIndex
	}

	next := b.withColumnsCopied()
	moved := next.columns[active.ColumnIndex].Items[active.ItemIndex]
	src := &next.columns[active.ColumnIndex]
	src.Items = slices.Delete(src.Items, active.ItemIndex, active.ItemIndex+1)
	dst := &next.columns[over.ColumnIndex]
	dst.Items = slices.Insert(dst.Items, insertAt, moved)
	return next, true
}

// Reorder moves activeID to overID's index when both items currently share a column.
func (b Board) Reorder(activeID, overID string) (Board, bool) {
	if activeID == overID {
		return b, false
	}
	active := b.Resolve(activeID)
	over := b.Resolve(overID)
	if active.Kind != TargetItem || over.Kind != TargetItem {
		return b, false
	}
	if active.ColumnIndex != over.ColumnIndex {
		return b, false
	}

	next := b.withColumnsCopied()
	column := &next.columns[active.ColumnIndex]
	column.Items = moveItem(column.Items, active.ItemIndex, over.ItemIndex)
	return next, true
}

// withColumnsCopied returns a board whose column item slices may be mutated freely.
func (b Board) withColumnsCopied() Board {
	return Board{columns: b.Columns()}
}

// moveItem removes the element at from and reinserts it at to.
func moveItem(items []Item, from, to int) []Item {
	if from == to {
		return items
	}
	moved := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, moved)
}

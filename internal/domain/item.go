package domain

import "strings"

// ItemIDPrefix prefixes every generated item id so item ids never collide with column ids.
const ItemIDPrefix = "item-"

// Item is one short user-entered text unit owned by exactly one column.
type Item struct {
	ID      string
	Content string
}

// NewItem constructs a new value for this package.
func NewItem(id, content string) (Item, error) {
	id = strings.TrimSpace(id)
	content = strings.TrimSpace(content)
	if id == "" {
		return Item{}, ErrInvalidID
	}
	if content == "" {
		return Item{}, ErrInvalidContent
	}
	return Item{ID: id, Content: content}, nil
}

// SplitItemInput splits comma-separated form input into trimmed, non-empty pieces in input order.
func SplitItemInput(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

package domain

import (
	"slices"
	"strings"
)

// Column represents one labeled category on the board.
type Column struct {
	ID       string
	Title    string
	Color    string
	Meaning  string
	Strategy string
	Items    []Item
}

// ColumnInput holds input values for column construction.
type ColumnInput struct {
	ID       string
	Title    string
	Color    string
	Meaning  string
	Strategy string
}

// NewColumn constructs a new value for this package.
func NewColumn(in ColumnInput) (Column, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	if in.ID == "" {
		return Column{}, ErrInvalidID
	}
	if in.Title == "" {
		return Column{}, ErrInvalidTitle
	}
	return Column{
		ID:       in.ID,
		Title:    in.Title,
		Color:    strings.TrimSpace(in.Color),
		Meaning:  strings.TrimSpace(in.Meaning),
		Strategy: strings.TrimSpace(in.Strategy),
		Items:    []Item{},
	}, nil
}

// IndexOf returns the index of an item id in the column, or -1.
func (c Column) IndexOf(itemID string) int {
	return slices.IndexFunc(c.Items, func(item Item) bool {
		return item.ID == itemID
	})
}

// clone copies the column with its own item slice.
func (c Column) clone() Column {
	c.Items = slices.Clone(c.Items)
	if c.Items == nil {
		c.Items = []Item{}
	}
	return c
}

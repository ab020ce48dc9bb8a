package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
)

// KeyConfig holds optional key overrides loaded from config. Blank fields keep the defaults.
type KeyConfig struct {
	Drag     string
	Topic    string
	AddItems string
	Export   string
	Info     string
	Copy     string
}

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	toggleHelp key.Binding
	moveLeft   key.Binding
	moveRight  key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	drag       key.Binding
	drop       key.Binding
	cancel     key.Binding
	topic      key.Binding
	addItems   key.Binding
	export     key.Binding
	info       key.Binding
	copyBoard  key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "item up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "item down")),
		drag:       key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "drag/drop")),
		drop:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		topic:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "topic")),
		addItems:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add items")),
		export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export pdf")),
		info:       key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "column info")),
		copyBoard:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy board")),
	}
}

// applyConfig applies configured overrides to the bindings that support them.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.drag, cfg.Drag, "space", "drag/drop")
	configureBinding(&k.topic, cfg.Topic, "t", "topic")
	configureBinding(&k.addItems, cfg.AddItems, "a", "add items")
	configureBinding(&k.export, cfg.Export, "e", "export pdf")
	configureBinding(&k.info, cfg.Info, "i", "column info")
	configureBinding(&k.copyBoard, cfg.Copy, "y", "copy board")
}

// configureBinding replaces the keys and help of one binding.
func configureBinding(b *key.Binding, value, fallback, desc string) {
	keys, help := parseBindingKeys(value, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// parseBindingKeys turns a configured key name into matcher keys plus the help label.
func parseBindingKeys(value, fallback string) ([]string, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if value == " " || strings.EqualFold(value, "space") {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.topic, k.addItems, k.drag, k.export, k.info, k.copyBoard, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.topic, k.addItems, k.export, k.info, k.copyBoard, k.toggleHelp, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.drag, k.drop, k.cancel},
	}
}

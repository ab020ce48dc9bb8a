package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
)

// TestParseBindingKeys verifies key parsing behavior for configured overrides.
func TestParseBindingKeys(t *testing.T) {
	t.Run("space aliases", func(t *testing.T) {
		keys, help := parseBindingKeys("space", "d")
		if len(keys) != 2 || keys[0] != " " || keys[1] != "space" {
			t.Fatalf("unexpected parsed space keys %#v", keys)
		}
		if help != "space" {
			t.Fatalf("unexpected space help text %q", help)
		}
	})

	t.Run("uppercase rune includes shift alias", func(t *testing.T) {
		keys, help := parseBindingKeys("E", "e")
		if len(keys) != 2 || keys[0] != "E" || keys[1] != "shift+e" {
			t.Fatalf("unexpected uppercase parsed keys %#v", keys)
		}
		if help != "E" {
			t.Fatalf("unexpected uppercase help text %q", help)
		}
	})

	t.Run("multi rune lowercases key matcher", func(t *testing.T) {
		keys, help := parseBindingKeys("Ctrl+E", "e")
		if len(keys) != 1 || keys[0] != "ctrl+e" {
			t.Fatalf("unexpected multi-rune parsed keys %#v", keys)
		}
		if help != "Ctrl+E" {
			t.Fatalf("unexpected multi-rune help text %q", help)
		}
	})

	t.Run("blank uses fallback", func(t *testing.T) {
		keys, help := parseBindingKeys("", "x")
		if len(keys) != 1 || keys[0] != "x" {
			t.Fatalf("unexpected fallback parsed keys %#v", keys)
		}
		if help != "x" {
			t.Fatalf("unexpected fallback help text %q", help)
		}
	})
}

// TestConfigureBinding verifies binding override application behavior.
func TestConfigureBinding(t *testing.T) {
	b := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "old"))
	configureBinding(&b, "p", "e", "export pdf")
	keys := b.Keys()
	if len(keys) != 1 || keys[0] != "p" {
		t.Fatalf("unexpected configured keys %#v", keys)
	}
	if b.Help().Key != "p" || b.Help().Desc != "export pdf" {
		t.Fatalf("unexpected configured help %#v", b.Help())
	}
}

// TestKeyMapApplyConfig verifies dynamic key map override behavior.
func TestKeyMapApplyConfig(t *testing.T) {
	k := newKeyMap()
	k.applyConfig(KeyConfig{
		Drag:   "d",
		Topic:  "T",
		Export: "ctrl+p",
	})

	assertKeys := func(name string, binding key.Binding, expected ...string) {
		t.Helper()
		got := binding.Keys()
		if len(got) != len(expected) {
			t.Fatalf("%s key count mismatch got=%#v expected=%#v", name, got, expected)
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("%s key mismatch got=%#v expected=%#v", name, got, expected)
			}
		}
	}

	assertKeys("drag", k.drag, "d")
	assertKeys("topic", k.topic, "T", "shift+t")
	assertKeys("export", k.export, "ctrl+p")
	assertKeys("add items", k.addItems, "a")
	assertKeys("copy", k.copyBoard, "y")
}

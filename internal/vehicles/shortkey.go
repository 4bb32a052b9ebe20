package vehicles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Shortkey is a keyboard shortcut given by its symbolic key name (F5, A, D1,
// NumPad1, Return, ...). The zero value means "no shortcut".
type Shortkey struct {
	name string
	key  string
}

// shortkeys maps lower-cased key names to the canonical name and the key
// string reported by the terminal.
var shortkeys = buildShortkeys()

func buildShortkeys() map[string]Shortkey {
	m := make(map[string]Shortkey)
	add := func(name, k string) {
		m[strings.ToLower(name)] = Shortkey{name: name, key: k}
	}

	for c := 'A'; c <= 'Z'; c++ {
		add(string(c), strings.ToLower(string(c)))
	}
	for d := 0; d <= 9; d++ {
		digit := fmt.Sprint(d)
		add("D"+digit, digit)
		add("NumPad"+digit, digit)
	}
	for f := 1; f <= 20; f++ {
		add(fmt.Sprintf("F%d", f), fmt.Sprintf("f%d", f))
	}

	add("Space", " ")
	add("Return", "enter")
	add("Escape", "esc")
	add("Tab", "tab")
	add("Back", "backspace")
	add("Delete", "delete")
	add("Insert", "insert")
	add("Home", "home")
	add("End", "end")
	add("PageUp", "pgup")
	add("PageDown", "pgdown")
	add("Up", "up")
	add("Down", "down")
	add("Left", "left")
	add("Right", "right")

	// aliases
	m["enter"] = m["return"]
	m["prior"] = m["pageup"]
	m["next"] = m["pagedown"]
	m["backspace"] = m["back"]
	m["esc"] = m["escape"]

	return m
}

// ParseShortkey parses a key name, ignoring case. Blank, "None" and unknown
// names yield the zero Shortkey.
func ParseShortkey(s string) Shortkey {
	return shortkeys[strings.ToLower(strings.TrimSpace(s))]
}

// IsNone reports whether no shortcut is set
func (s Shortkey) IsNone() bool {
	return s.key == ""
}

// Name returns the canonical key name, e.g. "F5".
func (s Shortkey) Name() string {
	return s.name
}

// Key returns the key string as reported by tea.KeyMsg.String(), e.g. "f5".
func (s Shortkey) Key() string {
	return s.key
}

// String returns the key name or "None".
func (s Shortkey) String() string {
	if s.IsNone() {
		return "None"
	}
	return s.name
}

// Binding returns a key binding for the shortcut. It is disabled when no
// shortcut is set.
func (s Shortkey) Binding(help string) key.Binding {
	if s.IsNone() {
		return key.NewBinding(key.WithDisabled())
	}
	label := s.key
	if label == " " {
		label = "space"
	}
	return key.NewBinding(
		key.WithKeys(s.key),
		key.WithHelp(label, help),
	)
}

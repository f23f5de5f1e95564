package terminal

import "fmt"

// KeyType identifies a key the terminal reacts to.
type KeyType int

const (
	KeyRune KeyType = iota
	KeyBackspace
	KeyEnter
	KeyUp
	KeyDown
	KeyTab
	KeyCtrlC
	KeyEscape
)

var keyNames = [...]string{"rune", "backspace", "enter", "up", "down", "tab", "ctrl+c", "escape"}

// String returns a string representation of the key type.
func (k KeyType) String() string {
	if k >= 0 && int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "unknown"
}

// MarshalText encodes the key type as its name.
func (k KeyType) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a key type name.
func (k *KeyType) UnmarshalText(b []byte) error {
	for i, name := range keyNames {
		if name == string(b) {
			*k = KeyType(i)
			return nil
		}
	}
	return fmt.Errorf("terminal: unknown key %q", b)
}

// Key is one key press. Runes carries the typed text for KeyRune.
type Key struct {
	Type  KeyType `json:"type"`
	Runes string  `json:"runes,omitempty"`
}

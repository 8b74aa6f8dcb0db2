package window

// Key represents a keyboard key. The set is intentionally small for now and
// can grow as input handling is added.
type Key int

const (
	KeyUnknown Key = iota
	KeyC
	KeyN
	KeyX
	KeyEscape
)

var keyNames = map[Key]string{
	KeyUnknown: "unknown",
	KeyC:       "C",
	KeyN:       "N",
	KeyX:       "X",
	KeyEscape:  "Escape",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return keyNames[KeyUnknown]
}

// Action is the transition reported for a key.
type Action int

const (
	Release Action = iota
	Press
)

package keymap

// Resolver maps key codes to buttons.
type Resolver struct {
	bindings map[uint16]Button   // code -> button
	byButton map[Button][]uint16 // button -> codes (for help/documentation)
}

// NewResolver creates a resolver from bindings. Later bindings win when a
// code is bound twice.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[uint16]Button),
		byButton: make(map[Button][]uint16),
	}
	for _, b := range bindings {
		for _, code := range b.Codes {
			r.bindings[code] = b.Button
		}
		r.byButton[b.Button] = append(r.byButton[b.Button], b.Codes...)
	}
	for button, codes := range r.byButton {
		r.byButton[button] = dedupe(codes)
	}
	return r
}

// Default returns a resolver over the default bindings.
func Default() *Resolver {
	return NewResolver(Bindings)
}

// Resolve returns the button for a code, or ButtonNone if not bound.
func (r *Resolver) Resolve(code uint16) Button {
	if b, ok := r.bindings[code]; ok {
		return b
	}
	return ButtonNone
}

// CodesFor returns the codes bound to a button.
func (r *Resolver) CodesFor(b Button) []uint16 {
	return r.byButton[b]
}

// Override rebinds code to b.
func (r *Resolver) Override(code uint16, b Button) {
	if old, ok := r.bindings[code]; ok {
		codes := r.byButton[old][:0:0]
		for _, c := range r.byButton[old] {
			if c != code {
				codes = append(codes, c)
			}
		}
		r.byButton[old] = codes
	}
	r.bindings[code] = b
	r.byButton[b] = dedupe(append(r.byButton[b], code))
}

// dedupe removes duplicate codes from a slice.
func dedupe[T comparable](s []T) []T {
	seen := make(map[T]bool)
	result := make([]T, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

package keymap

// Resolver maps key strings to actions.
type Resolver struct {
	bindings map[string]Action   // key -> action
	byAction map[Action][]string // action -> keys, for help
}

// NewResolver creates a resolver from bindings. A key bound twice keeps
// its last binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.bindings[k] = b.Action
		}
		r.byAction[b.Action] = dedupe(append(r.byAction[b.Action], b.Keys...))
	}
	return r
}

// Resolve returns the action for a key, or "" if the key is not bound.
func (r *Resolver) Resolve(key string) Action {
	return r.bindings[key]
}

// KeysFor returns the keys bound to action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

// SeekPercent returns the seek target of a digit key: "0" is 0%, "9"
// is 90%.
func SeekPercent(key string) (float64, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' {
		return 0, false
	}
	return float64(key[0]-'0') * 10, true
}

func dedupe(s []string) []string {
	seen := make(map[string]bool, len(s))
	result := s[:0:0]
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			result = append(result, v)
		}
	}
	return result
}

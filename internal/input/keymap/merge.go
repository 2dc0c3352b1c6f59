package keymap

// Merge layers overrides on top of defaults. An override whose action
// equals a default action replaces that default's item in place; any other
// override is appended. Defaults keep their order.
func Merge[T comparable](defaults, overrides []Entry[T]) []Entry[T] {
	merged := make([]Entry[T], len(defaults), len(defaults)+len(overrides))
	index := make(map[T]int, len(defaults)+len(overrides))
	for i, e := range defaults {
		merged[i] = Entry[T]{Action: e.Action, Item: e.Item.Clone()}
		if _, ok := index[e.Action]; !ok {
			index[e.Action] = i
		}
	}

	for _, o := range overrides {
		if i, ok := index[o.Action]; ok {
			merged[i].Item = o.Item.Clone()
			continue
		}
		index[o.Action] = len(merged)
		merged = append(merged, Entry[T]{Action: o.Action, Item: o.Item.Clone()})
	}

	return merged
}

// NewDerivedConfig compiles defaults with user overrides merged on top.
func NewDerivedConfig[T comparable](defaults, overrides []Entry[T], opts ...MatcherOption) (*Config[T], error) {
	return NewConfig(Merge(defaults, overrides), opts...)
}

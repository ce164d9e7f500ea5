package lastpass

import (
	"encoding/json"
	"sort"
)

// EntryKind says which representation an Entry holds.
type EntryKind int

const (
	KindScalar EntryKind = iota
	KindMap
	KindPairs
)

func (k EntryKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMap:
		return "map"
	case KindPairs:
		return "pairs"
	}
	return "unknown"
}

// Pair is one key/value line from lpass show --all output.
type Pair struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Entry is the parsed result of one show call: a single value, a map of
// lower-cased field names, or the ordered field list.
type Entry struct {
	Kind   EntryKind
	Scalar string
	Map    map[string]string
	Pairs  []Pair
}

// ScalarEntry wraps a single value.
func ScalarEntry(v string) Entry {
	return Entry{Kind: KindScalar, Scalar: v}
}

// MapEntry wraps a field map.
func MapEntry(m map[string]string) Entry {
	return Entry{Kind: KindMap, Map: m}
}

// PairsEntry wraps an ordered field list.
func PairsEntry(p []Pair) Entry {
	return Entry{Kind: KindPairs, Pairs: p}
}

// Value returns the representation callers serialize: a string,
// map[string]string or []Pair.
func (e Entry) Value() interface{} {
	switch e.Kind {
	case KindMap:
		if e.Map == nil {
			return map[string]string{}
		}
		return e.Map
	case KindPairs:
		if e.Pairs == nil {
			return []Pair{}
		}
		return e.Pairs
	}
	return e.Scalar
}

// Keys returns the field names of a map or pairs entry, sorted and deduplicated.
func (e Entry) Keys() []string {
	seen := make(map[string]struct{})
	switch e.Kind {
	case KindMap:
		for k := range e.Map {
			seen[k] = struct{}{}
		}
	case KindPairs:
		for _, p := range e.Pairs {
			seen[p.Key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the entry as a string, an object or a list of
// {key, value} objects.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Value())
}

// MarshalYAML implements yaml.Marshaler with the same shapes as MarshalJSON.
func (e Entry) MarshalYAML() (interface{}, error) {
	return e.Value(), nil
}

package lastpass

import "fmt"

// SyncMode is the value passed to lpass --sync. It is not validated here;
// lpass decides which values are legal.
type SyncMode string

const (
	SyncAuto SyncMode = "auto"
	SyncNow  SyncMode = "now"
	SyncNo   SyncMode = "no"
)

// FieldAll is the pseudo-field callers sometimes ask for instead of AsDict.
const FieldAll = "all"

// namedFields have a dedicated lpass flag (--username, --password, ...).
// "all" is deliberately absent, see FieldAll.
var namedFields = map[string]struct{}{
	"username": {},
	"password": {},
	"url":      {},
	"notes":    {},
	"id":       {},
	"name":     {},
}

// IsNamedField reports whether field maps to its own lpass flag rather
// than --field=<name>.
func IsNamedField(field string) bool {
	_, ok := namedFields[field]
	return ok
}

// LookupOptions selects what a show call returns. The zero value is not
// usable on its own: exactly one of Field or AsDict must be set.
type LookupOptions struct {
	// Field is a named field (see IsNamedField) or any custom field name.
	Field string `yaml:"field,omitempty" json:"field,omitempty"`

	// AsDict returns every field of the entry instead of a single value.
	AsDict bool `yaml:"as_dict,omitempty" json:"as_dict,omitempty"`

	// Pairs, together with AsDict, keeps the fields as an ordered list of
	// key/value records (duplicates included) instead of a map.
	Pairs bool `yaml:"pairs,omitempty" json:"pairs,omitempty"`

	// BasicRegexp and FixedStrings change how lpass matches the target.
	// BasicRegexp wins when both are set.
	BasicRegexp  bool `yaml:"basic_regexp,omitempty" json:"basic_regexp,omitempty"`
	FixedStrings bool `yaml:"fixed_strings,omitempty" json:"fixed_strings,omitempty"`

	ExpandMulti bool     `yaml:"expand_multi,omitempty" json:"expand_multi,omitempty"`
	Sync        SyncMode `yaml:"sync,omitempty" json:"sync,omitempty"`
}

// Validate checks the field selection rules. It never spawns a process.
func (o LookupOptions) Validate() error {
	switch {
	case o.AsDict && o.Field != "":
		return invalidOptions(fmt.Sprintf("field %q and as_dict are mutually exclusive", o.Field))
	case o.AsDict:
		return nil
	case o.Field == FieldAll:
		return invalidOptions(`field "all" is not supported, use as_dict instead`)
	case o.Field != "":
		return nil
	default:
		return invalidOptions("one of field or as_dict is required")
	}
}

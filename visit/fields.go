// Package visit models the contents of an observation visit file: typed
// statements, the group/sequence/activity hierarchy, and the aggregate
// Visit with its tabular summaries.
package visit

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrFieldNotPresent indicates a lookup of a field the statement does not
// carry.
var ErrFieldNotPresent = errors.New("field not present")

// ErrDuplicateField indicates a statement declared the same field name twice.
var ErrDuplicateField = errors.New("duplicate field")

// ErrReservedField indicates a file-supplied field name that collides with a
// structural statement attribute. The file format never uses lowercase
// field names, so a collision signals a malformed file.
var ErrReservedField = errors.New("reserved field name")

// reservedFieldNames are structural attribute names a file-supplied field
// must not shadow.
var reservedFieldNames = map[string]bool{
	"name":       true,
	"args":       true,
	"id":         true,
	"scriptname": true,
	"group":      true,
	"sequence":   true,
	"activity":   true,
	"gsa":        true,
}

// Value is one field value from a statement. Values that parse as floating
// point numbers are kept numeric; everything else stays text.
type Value struct {
	text    string
	num     float64
	numeric bool
}

// TextValue creates a text value.
func TextValue(s string) Value {
	return Value{text: s}
}

// NumValue creates a numeric value, retaining the original file text.
func NumValue(text string, n float64) Value {
	return Value{text: text, num: n, numeric: true}
}

// ParseValue coerces a raw field value: numeric when it parses as a float,
// text otherwise. Coercion is deterministic, so re-parsing a value's text
// always yields an equal Value.
func ParseValue(raw string) Value {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return NumValue(raw, n)
	}
	return TextValue(raw)
}

// IsNumeric reports whether the value parsed as a number.
func (v Value) IsNumeric() bool { return v.numeric }

// Float returns the numeric value, or an error for text values.
func (v Value) Float() (float64, error) {
	if !v.numeric {
		return 0, fmt.Errorf("value %q is not numeric", v.text)
	}
	return v.num, nil
}

// Text returns the value exactly as written in the file.
func (v Value) Text() string { return v.text }

// String renders the value for reports: the shortest float form for
// numbers, the raw text otherwise.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.text
}

// Fields is an ordered mapping from field name to value, keyed exactly as
// written in the file. Keys are unique per statement.
type Fields struct {
	names  []string
	values map[string]Value
}

// Set stores a field value. Duplicate names and names shadowing structural
// attributes are rejected.
func (f *Fields) Set(name string, v Value) error {
	if reservedFieldNames[name] {
		return fmt.Errorf("%w: %s", ErrReservedField, name)
	}
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, ok := f.values[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateField, name)
	}
	f.names = append(f.names, name)
	f.values[name] = v
	return nil
}

// Has reports whether the named field is present.
func (f *Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Lookup returns the named field value.
func (f *Fields) Lookup(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Get returns the named field value or ErrFieldNotPresent.
func (f *Fields) Get(name string) (Value, error) {
	v, ok := f.values[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s", ErrFieldNotPresent, name)
	}
	return v, nil
}

// Float returns the named field as a number.
func (f *Fields) Float(name string) (float64, error) {
	v, err := f.Get(name)
	if err != nil {
		return 0, err
	}
	return v.Float()
}

// Text returns the named field's file text.
func (f *Fields) Text(name string) (string, error) {
	v, err := f.Get(name)
	if err != nil {
		return "", err
	}
	return v.Text(), nil
}

// Names returns the field names in file order.
func (f *Fields) Names() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

// Len returns the number of fields.
func (f *Fields) Len() int { return len(f.names) }

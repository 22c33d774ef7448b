package visit

import (
	"sort"
	"strings"
	"sync"
)

// Instrument describes how Overview filters the summary table and which
// statement fields it reports for one instrument.
type Instrument struct {
	// Name is the instrument identifier, matched case-insensitively.
	Name string

	// ScriptPrefixes are the recognized three-character script name
	// prefixes; summary rows whose script matches none of them are
	// dropped.
	ScriptPrefixes []string

	// Columns are the statement field names reported after the gsa code.
	// Fields a statement does not carry render as the NoScript sentinel.
	Columns []string
}

// InstrumentRegistry manages instrument overview profiles.
type InstrumentRegistry struct {
	mu          sync.RWMutex
	instruments map[string]Instrument
}

// DefaultInstruments is the global instrument registry with the built-in
// profiles.
var DefaultInstruments = NewInstrumentRegistry()

// NewInstrumentRegistry creates a registry with the built-in instrument
// profiles.
func NewInstrumentRegistry() *InstrumentRegistry {
	r := &InstrumentRegistry{instruments: make(map[string]Instrument)}

	// The NIRISS report deliberately keeps NRC-prefixed calibration
	// activities alongside NIS ones.
	r.Register(Instrument{
		Name:           "niriss",
		ScriptPrefixes: []string{"NIS", "NRC"},
		Columns: []string{
			"OPMODE", "TARGTYPE", "DITHERID", "PATTERN", "NINTS",
			"NGROUPS", "PUPIL", "FILTER", "SUBARRAY",
		},
	})
	return r
}

// Register adds or replaces an instrument profile.
func (r *InstrumentRegistry) Register(inst Instrument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instruments[strings.ToLower(inst.Name)] = inst
}

// Get returns the profile for the named instrument, case-insensitively.
func (r *InstrumentRegistry) Get(name string) (Instrument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instruments[strings.ToLower(name)]
	return inst, ok
}

// Names returns the registered instrument names, sorted.
func (r *InstrumentRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.instruments))
	for name := range r.instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

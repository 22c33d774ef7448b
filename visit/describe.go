package visit

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrIncompleteDescription indicates an activity lacks a field its
// script-specific description needs. Callers may still use the partial
// information on the statement itself.
var ErrIncompleteDescription = errors.New("incomplete description")

// DescribeFunc renders a human-readable description of an activity-like
// statement from its fields. It must be pure: no statement mutation.
type DescribeFunc func(*Activity) (string, error)

var (
	describeMu       sync.RWMutex
	describeRegistry = map[string]DescribeFunc{}
)

// RegisterDescriber installs the description function for a script name,
// replacing any previous one.
func RegisterDescriber(script string, fn DescribeFunc) {
	describeMu.Lock()
	defer describeMu.Unlock()
	describeRegistry[script] = fn
}

func describerFor(script string) (DescribeFunc, bool) {
	describeMu.RLock()
	defer describeMu.RUnlock()
	fn, ok := describeRegistry[script]
	return fn, ok
}

// Describe renders the activity for cross-check reports. Guide and slew
// statements have fixed renderings; science activities dispatch on script
// name, falling back to the bare script name when no describer is
// registered. Missing fields yield ErrIncompleteDescription.
func (a *Activity) Describe() (string, error) {
	switch a.Variant {
	case VariantGuide:
		return describeGuide(a)
	case VariantSlew:
		return describeSlew(a)
	}
	script, ok := a.Script()
	if !ok {
		return NoScript, nil
	}
	if fn, registered := describerFor(script); registered {
		return fn(a)
	}
	return script, nil
}

func describeGuide(a *Activity) (string, error) {
	if script, _ := a.Script(); script == "FGSVERMAIN" {
		return "Verification", nil
	}
	detector, err := a.Fields.Text("DETECTOR")
	if err != nil || detector == "" {
		return "", fmt.Errorf("%w: guide %s lacks DETECTOR", ErrIncompleteDescription, a.GSA())
	}
	return fmt.Sprintf("FGS%c", detector[len(detector)-1]), nil
}

func describeSlew(a *Activity) (string, error) {
	ra, raErr := a.Fields.Get("GSRA")
	dec, decErr := a.Fields.Get("GSDEC")
	pa, paErr := a.Fields.Get("GSPA")
	if raErr != nil || decErr != nil || paErr != nil {
		return "", fmt.Errorf("%w: slew %s lacks guide star coordinates", ErrIncompleteDescription, a.GSA())
	}
	return fmt.Sprintf("for N/A on GS at (%s, %s) with PA=%s", ra, dec, pa), nil
}

func init() {
	RegisterDescriber("NRCWFSCMAIN", func(a *Activity) (string, error) {
		vals, err := fieldStrings(a, "CONFIG", "WFCGROUP", "NGROUPS", "NINTS", "FILTSHORTA", "FILTLONGA")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NRCWFSCMAIN  %s WFCGROUP=%s Readout=%s groups, %s ints SW=%s, LW=%s",
			vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]), nil
	})

	RegisterDescriber("NRCMAIN", func(a *Activity) (string, error) {
		vals, err := fieldStrings(a, "CONFIG", "NGROUPS", "NINTS", "FILTSHORTA", "FILTLONGA")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NRCMAIN  %s Readout=%s groups, %s ints SW=%s, LW=%s",
			vals[0], vals[1], vals[2], vals[3], vals[4]), nil
	})

	// NRCWFCPMAIN reports the short-wavelength filter and pupil of the
	// module named by the fourth character of CONFIG (A or B).
	RegisterDescriber("NRCWFCPMAIN", func(a *Activity) (string, error) {
		config, err := a.Fields.Text("CONFIG")
		if err != nil || len(config) < 4 {
			return "", fmt.Errorf("%w: NRCWFCPMAIN %s lacks a module CONFIG", ErrIncompleteDescription, a.GSA())
		}
		module := strings.ToUpper(config[3:4])
		vals, err := fieldStrings(a, "FILTSHORT"+module, "PUPILSHORT"+module, "NGROUPS", "NINTS")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("NRCWFCPMAIN  %s+%s Readout=%s groups, %s ints",
			vals[0], vals[1], vals[2], vals[3]), nil
	})

	RegisterDescriber("SCSAMMAIN", func(a *Activity) (string, error) {
		vals, err := fieldStrings(a, "DELTAX", "DELTAY", "DELTAPA")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SCSAMMAIN  dx=%s, dy=%s, dpa=%s", vals[0], vals[1], vals[2]), nil
	})

	RegisterDescriber("NRCSUBMAIN", func(a *Activity) (string, error) {
		subarray, err := a.Fields.Get("SUBARRAY")
		if err != nil {
			return "", fmt.Errorf("%w: NRCSUBMAIN %s lacks SUBARRAY", ErrIncompleteDescription, a.GSA())
		}
		return fmt.Sprintf("NRCSUBMAIN   subarray=%s", subarray), nil
	})
}

// fieldStrings renders the named fields, wrapping any miss as an
// incomplete description.
func fieldStrings(a *Activity, names ...string) ([]string, error) {
	vals := make([]string, len(names))
	for i, name := range names {
		v, err := a.Fields.Get(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s lacks %s", ErrIncompleteDescription, a.ScriptName(), a.GSA(), name)
		}
		vals[i] = v.String()
	}
	return vals, nil
}

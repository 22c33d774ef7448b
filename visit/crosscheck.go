package visit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingAux indicates a wavefront-sensing visit without the AUX
// statement that must accompany it.
var ErrMissingAux = errors.New("WFSC visit but no AUX statement found")

// WFSCCrossCheck summarizes the statements relevant to a wavefront sensing
// and control consistency check.
type WFSCCrossCheck struct {
	// Slews are the slew and guide statements in file order.
	Slews []*Activity

	// Activities are the science activity statements in file order.
	Activities []*Activity

	// WFSC reports whether any activity invokes a wavefront-sensing
	// script.
	WFSC bool
}

// CrossCheckWFSC partitions the visit's activity-like statements for a
// wavefront-sensing consistency check. A visit whose activities use WFSC
// scripts must carry an AUX statement; its absence fails the check, not
// the parse.
func (v *Visit) CrossCheckWFSC() (*WFSCCrossCheck, error) {
	check := &WFSCCrossCheck{}
	for _, a := range v.Activities {
		switch a.Variant {
		case VariantSlew, VariantGuide:
			check.Slews = append(check.Slews, a)
		default:
			check.Activities = append(check.Activities, a)
			if strings.Contains(a.ScriptName(), "WFSC") {
				check.WFSC = true
			}
		}
	}
	if check.WFSC && v.Aux == nil {
		return check, fmt.Errorf("visit %s: %w", v.ID, ErrMissingAux)
	}
	return check, nil
}

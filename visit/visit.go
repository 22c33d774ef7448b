package visit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/visitparse/report"
)

// Summary table column names, in order.
const (
	ColGroupID = "GROUP_ID"
	ColSeqID   = "SEQ_ID"
	ColActID   = "ACT_ID"
	ColGSA     = "GSA"
	ColType    = "TYPE"
	ColScript  = "SCRIPT"
)

// Warning records a recovered, non-fatal problem encountered while
// parsing one command.
type Warning struct {
	// Command is the raw command text the warning refers to.
	Command string

	// Message describes what was recovered.
	Message string
}

// Visit aggregates everything parsed from one visit file. It is built once
// per file and not mutated afterwards; overview projections are derived on
// demand.
type Visit struct {
	// Templates are the planning-tool template names from the file's
	// first comment line. Empty when the file carries none.
	Templates []string

	// ID is the visit identifier from the VISIT statement.
	ID string

	// Parameters, Momentum, and Aux hold the visit-level singleton
	// statements. A file declares each at most once; should it not, the
	// most recent statement wins.
	Parameters *Statement
	Momentum   *Statement
	Aux        *Statement

	// Preamble holds every statement before the first GROUP, in file
	// order, including the singletons above.
	Preamble []*Statement

	// Dithers are the DITHER statements in file order, keyed by their
	// declared identifier.
	Dithers []*Statement

	// Groups is the observation hierarchy in file order.
	Groups []*Group

	// Activities is the flat list of activity-like statements, parallel
	// to the summary table rows.
	Activities []*Activity

	// Warnings are the non-fatal problems recovered during parsing.
	Warnings []Warning

	summary *report.Table
}

// New assembles a Visit from the preamble statements and hierarchy
// produced by the parser, deriving the summary table.
func New(templates []string, preamble []*Statement, groups []*Group) (*Visit, error) {
	v := &Visit{
		Templates: templates,
		Preamble:  preamble,
		Groups:    groups,
	}

	for _, st := range preamble {
		switch st.Kind {
		case KindVisit:
			v.ID = st.ID
			v.Parameters = st
		case KindMomentum:
			v.Momentum = st
		case KindAux:
			v.Aux = st
		case KindDither:
			v.Dithers = append(v.Dithers, st)
		}
	}

	v.summary = report.NewTable(ColGroupID, ColSeqID, ColActID, ColGSA, ColType, ColScript)
	for _, group := range groups {
		for _, seq := range group.Sequences {
			for _, act := range seq.Activities {
				err := v.summary.AddRow(
					strconv.Itoa(group.Number),
					strconv.Itoa(seq.Number),
					strconv.Itoa(act.Number),
					act.GSA(),
					act.Name,
					act.ScriptName(),
				)
				if err != nil {
					return nil, fmt.Errorf("summary row for %s: %w", act.GSA(), err)
				}
				v.Activities = append(v.Activities, act)
			}
		}
	}
	return v, nil
}

// Group returns the group with the given label, e.g. "GROUP_01".
func (v *Visit) Group(label string) (*Group, bool) {
	for _, g := range v.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return nil, false
}

// Dither returns the DITHER statement with the given identifier.
func (v *Visit) Dither(id string) (*Statement, bool) {
	for _, d := range v.Dithers {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// Activity returns the first activity-like statement with the given gsa
// code.
func (v *Visit) Activity(gsa string) (*Activity, bool) {
	for _, a := range v.Activities {
		if a.GSA() == gsa {
			return a, true
		}
	}
	return nil, false
}

// SummaryTable returns a copy of the visit's summary table: one row per
// activity-like statement with group, sequence, and activity numbers, the
// gsa code, the statement keyword, and the script name.
func (v *Visit) SummaryTable() *report.Table {
	return v.summary.Clone()
}

func (v *Visit) String() string {
	return fmt.Sprintf("Visit %s: %2d dithers, %2d groups, %3d observation statements. Uses %s",
		v.ID, len(v.Dithers), len(v.Groups), len(v.Activities), strings.Join(v.Templates, ", "))
}

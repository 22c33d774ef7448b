package visit

import (
	"fmt"

	"github.com/c360studio/visitparse/report"
)

// Overview projects the summary table for one instrument: rows are
// filtered to the instrument's recognized script prefixes and joined, on
// the gsa code, with a side table of the instrument's report fields.
// Unknown instrument names return the unfiltered summary table unchanged.
// A duplicate gsa code among the joined rows is an error, since the join
// result would be ambiguous.
func (v *Visit) Overview(instrument string) (*report.Table, error) {
	return v.OverviewWith(DefaultInstruments, instrument)
}

// OverviewWith is Overview against an explicit instrument registry.
func (v *Visit) OverviewWith(registry *InstrumentRegistry, instrument string) (*report.Table, error) {
	inst, ok := registry.Get(instrument)
	if !ok {
		return v.SummaryTable(), nil
	}

	scriptIdx := v.summary.ColumnIndex(ColScript)
	filtered := v.summary.Filter(func(row []string) bool {
		return matchesPrefix(row[scriptIdx], inst.ScriptPrefixes)
	})

	kept := make(map[string]bool, filtered.Len())
	gsaIdx := filtered.ColumnIndex(ColGSA)
	for _, row := range filtered.Rows() {
		kept[row[gsaIdx]] = true
	}

	side := report.NewTable(append([]string{ColGSA}, inst.Columns...)...)
	for _, act := range v.Activities {
		if !kept[act.GSA()] {
			continue
		}
		row := make([]string, 0, 1+len(inst.Columns))
		row = append(row, act.GSA())
		for _, col := range inst.Columns {
			if val, ok := act.Fields.Lookup(col); ok {
				row = append(row, val.String())
			} else {
				row = append(row, NoScript)
			}
		}
		if err := side.AddRow(row...); err != nil {
			return nil, fmt.Errorf("overview row for %s: %w", act.GSA(), err)
		}
	}

	joined, err := report.Join(filtered, side, ColGSA)
	if err != nil {
		return nil, fmt.Errorf("overview join for instrument %s: %w", inst.Name, err)
	}
	return joined, nil
}

// matchesPrefix reports whether the script's first three characters are
// among the recognized prefixes.
func matchesPrefix(script string, prefixes []string) bool {
	if len(script) < 3 {
		return false
	}
	head := script[:3]
	for _, p := range prefixes {
		if head == p {
			return true
		}
	}
	return false
}

package parser

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/c360studio/visitparse/visit"
)

// keywordKinds maps recognized top-level keywords to statement kinds.
var keywordKinds = map[string]visit.Kind{
	"VISIT":    visit.KindVisit,
	"MOMENTUM": visit.KindMomentum,
	"AUX":      visit.KindAux,
	"DITHER":   visit.KindDither,
	"GROUP":    visit.KindGroup,
	"SEQ":      visit.KindSeq,
	"SLEW":     visit.KindSlew,
	"ACT":      visit.KindAct,
}

// guideScripts are the ACT script names classified as guide statements.
var guideScripts = map[string]bool{
	"FGSMAIN":    true,
	"FGSVERMAIN": true,
}

// builder classifies raw commands into typed statements, collecting
// recoverable problems as warnings.
type builder struct {
	logger   *slog.Logger
	warnings []visit.Warning
}

func (b *builder) warn(cmd, message string) {
	b.warnings = append(b.warnings, visit.Warning{Command: cmd, Message: message})
	b.logger.Warn("parse warning", slog.String("command", cmd), slog.String("message", message))
}

// kindOf returns the statement kind for a raw command without building it.
func kindOf(cmd string) visit.Kind {
	name, _ := splitCommand(cmd)
	if kind, ok := keywordKinds[name]; ok {
		return kind
	}
	return visit.KindUnknown
}

// statement builds a typed preamble statement from a raw command.
func (b *builder) statement(cmd string) (*visit.Statement, error) {
	name, args := splitCommand(cmd)
	kind, ok := keywordKinds[name]
	if !ok {
		kind = visit.KindUnknown
	}
	st := visit.NewStatement(kind, name, args)

	switch kind {
	case visit.KindVisit:
		if len(args) == 0 {
			return nil, fmt.Errorf("VISIT statement has no identifier: %q", cmd)
		}
		st.ID = idOf(args[0])
		if err := parseFields(st, args[1:]); err != nil {
			return nil, fmt.Errorf("VISIT statement %q: %w", cmd, err)
		}
	case visit.KindMomentum, visit.KindAux:
		if err := parseFields(st, args); err != nil {
			return nil, fmt.Errorf("%s statement %q: %w", name, cmd, err)
		}
	case visit.KindDither:
		if len(args) == 0 {
			return nil, fmt.Errorf("DITHER statement has no identifier: %q", cmd)
		}
		st.ID = idOf(args[0])
		if err := parseFields(st, args); err != nil {
			return nil, fmt.Errorf("DITHER statement %q: %w", cmd, err)
		}
	}
	return st, nil
}

// activity builds an activity-like statement (SLEW or ACT) with its place
// in the hierarchy injected by the caller. A first argument that does not
// parse as a base-16 number is recovered with the sentinel activity id.
func (b *builder) activity(cmd string, group, sequence int) (*visit.Activity, error) {
	name, args := splitCommand(cmd)
	kind := keywordKinds[name]

	variant := visit.VariantActivity
	if kind == visit.KindSlew {
		variant = visit.VariantSlew
	} else if len(args) > 1 && guideScripts[args[1]] {
		variant = visit.VariantGuide
	}

	act := &visit.Activity{
		Statement: *visit.NewStatement(kind, name, args),
		Variant:   variant,
		Group:     group,
		Sequence:  sequence,
	}

	if len(args) == 0 {
		act.Number = visit.ActivityIDSentinel
		b.warn(cmd, fmt.Sprintf("%s statement has no activity number, using %d", name, visit.ActivityIDSentinel))
	} else if id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 16, 32); err == nil {
		act.Number = int(id)
	} else {
		act.Number = visit.ActivityIDSentinel
		b.warn(cmd, fmt.Sprintf("activity number %q is not hexadecimal, using %d", args[0], visit.ActivityIDSentinel))
	}

	var fieldArgs []string
	if len(args) > 2 {
		fieldArgs = args[2:]
	}
	if err := parseFields(&act.Statement, fieldArgs); err != nil {
		return nil, fmt.Errorf("%s statement %q: %w", name, cmd, err)
	}
	return act, nil
}

// parseFields stores every keyword=value argument on the statement.
// Values are split once on "=" and kept numeric when they parse as
// floats. Duplicate or reserved field names are rejected.
func parseFields(st *visit.Statement, args []string) error {
	for _, arg := range args {
		if !strings.Contains(arg, "=") {
			continue
		}
		pair := strings.SplitN(arg, "=", 2)
		if err := st.Fields.Set(pair[0], visit.ParseValue(pair[1])); err != nil {
			return err
		}
	}
	return nil
}

// idOf extracts a statement identifier from its first argument: the value
// portion when the argument is keyword=value, the whole token otherwise.
func idOf(arg string) string {
	if i := strings.Index(arg, "="); i >= 0 {
		return arg[i+1:]
	}
	return arg
}

package visit

import "fmt"

// Kind identifies the keyword class of a statement.
type Kind string

// Statement kinds recognized in visit files. Anything else is KindUnknown
// and is carried through with only its name and arguments.
const (
	KindVisit    Kind = "VISIT"
	KindMomentum Kind = "MOMENTUM"
	KindAux      Kind = "AUX"
	KindDither   Kind = "DITHER"
	KindGroup    Kind = "GROUP"
	KindSeq      Kind = "SEQ"
	KindSlew     Kind = "SLEW"
	KindAct      Kind = "ACT"
	KindUnknown  Kind = "UNKNOWN"
)

// NoScript is the report rendering of an absent script name.
const NoScript = "NONE"

// Statement is one parsed command from a visit file.
type Statement struct {
	// Kind is the recognized keyword class.
	Kind Kind

	// Name is the keyword exactly as written.
	Name string

	// ID is the statement identifier for VISIT and DITHER statements,
	// empty otherwise.
	ID string

	// Fields holds the keyword=value attributes of the statement.
	Fields Fields

	args      []string
	script    string
	hasScript bool
}

// NewStatement creates a statement with the given kind, keyword, and raw
// argument tokens. The script name, when the arguments carry one, is the
// second argument.
func NewStatement(kind Kind, name string, args []string) *Statement {
	s := &Statement{
		Kind: kind,
		Name: name,
		args: append([]string(nil), args...),
	}
	if len(args) > 1 {
		s.script = args[1]
		s.hasScript = true
	}
	return s
}

// Args returns the raw argument tokens in order.
func (s *Statement) Args() []string {
	args := make([]string, len(s.args))
	copy(args, s.args)
	return args
}

// Arg returns the i-th raw argument token.
func (s *Statement) Arg(i int) (string, bool) {
	if i < 0 || i >= len(s.args) {
		return "", false
	}
	return s.args[i], true
}

// Script returns the sub-program this statement invokes, when declared.
func (s *Statement) Script() (string, bool) {
	return s.script, s.hasScript
}

// ScriptName returns the script name or the NoScript sentinel, matching
// the visit file report convention.
func (s *Statement) ScriptName() string {
	if !s.hasScript {
		return NoScript
	}
	return s.script
}

func (s *Statement) String() string {
	return fmt.Sprintf("<Statement %s>", s.Name)
}

// Variant distinguishes the flavors of activity-like statements.
type Variant string

// Activity-like statement variants. Guide covers FGSMAIN and FGSVERMAIN
// activities; Slew covers SLEW statements; everything else is a plain
// science activity.
const (
	VariantActivity Variant = "activity"
	VariantGuide    Variant = "guide"
	VariantSlew     Variant = "slew"
)

// Activity is an activity-like statement (SLEW or ACT): the leaf unit of
// the group/sequence/activity hierarchy.
type Activity struct {
	Statement

	// Variant tells guide and slew statements apart from science
	// activities.
	Variant Variant

	// Group and Sequence locate the statement in the hierarchy. They are
	// assigned by the hierarchy builder, not self-declared.
	Group    int
	Sequence int

	// Number is the activity number, parsed as base-16 from the first
	// argument. Malformed values fall back to ActivityIDSentinel.
	Number int
}

// ActivityIDSentinel is substituted for an activity id that does not parse
// as a hexadecimal number.
const ActivityIDSentinel = 99

// GSA returns the composite group/sequence/activity key: zero-padded
// 2-digit group, 1-digit sequence, 2-digit activity.
func (a *Activity) GSA() string {
	return fmt.Sprintf("%02d%d%02d", a.Group, a.Sequence, a.Number)
}

func (a *Activity) String() string {
	label := "Activity"
	switch a.Variant {
	case VariantGuide:
		label = "Guide"
	case VariantSlew:
		label = "Slew"
	}
	desc, err := a.Describe()
	if err != nil {
		desc = a.ScriptName()
	}
	return fmt.Sprintf("%s %s:  %s", label, a.GSA(), desc)
}

// SequenceNode is an ordered list of activity-like statements introduced
// by a SEQ marker.
type SequenceNode struct {
	// Label is the zero-padded sequence key, e.g. "SEQ_01".
	Label string

	// Number is the sequence number declared by the SEQ statement.
	Number int

	// Activities are the statements of this sequence in file order.
	Activities []*Activity
}

// Group is an ordered collection of sequences introduced by a GROUP marker.
type Group struct {
	// Label is the zero-padded group key, e.g. "GROUP_01".
	Label string

	// Number is the group number declared by the GROUP statement.
	Number int

	// Sequences are the group's sequences in file order.
	Sequences []*SequenceNode
}

// Sequence returns the sequence with the given label.
func (g *Group) Sequence(label string) (*SequenceNode, bool) {
	for _, s := range g.Sequences {
		if s.Label == label {
			return s, true
		}
	}
	return nil, false
}

// GroupLabel formats a group number as its map key.
func GroupLabel(n int) string { return fmt.Sprintf("GROUP_%02d", n) }

// SequenceLabel formats a sequence number as its map key.
func SequenceLabel(n int) string { return fmt.Sprintf("SEQ_%02d", n) }

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/c360studio/visitparse/visit"
)

// ErrStrayActivity indicates a SLEW or ACT command outside any GROUP/SEQ
// pair, which leaves the statement with no place in the hierarchy.
var ErrStrayActivity = errors.New("activity statement outside any group/sequence")

// ErrStraySequence indicates a SEQ command before any GROUP command.
var ErrStraySequence = errors.New("sequence statement outside any group")

// buildHierarchy consumes the full ordered command sequence. The preamble
// runs until the first GROUP command (exclusive); from there GROUP and SEQ
// markers open hierarchy entries and SLEW/ACT commands are appended to the
// current sequence. SLEW, ACT, and SEQ commands before their parent marker
// are structural violations. Empty commands and unrecognized keywords in
// the second phase are skipped.
func (b *builder) buildHierarchy(commands []string) ([]*visit.Statement, []*visit.Group, error) {
	var preamble []*visit.Statement

	start := len(commands)
	for i, cmd := range commands {
		if cmd == "" {
			continue
		}
		kind := kindOf(cmd)
		if kind == visit.KindGroup {
			start = i
			break
		}
		switch kind {
		case visit.KindSlew, visit.KindAct:
			return nil, nil, fmt.Errorf("%w: %q", ErrStrayActivity, cmd)
		case visit.KindSeq:
			return nil, nil, fmt.Errorf("%w: %q", ErrStraySequence, cmd)
		}
		st, err := b.statement(cmd)
		if err != nil {
			return nil, nil, err
		}
		preamble = append(preamble, st)
	}

	var (
		groups   []*visit.Group
		curGroup *visit.Group
		curSeq   *visit.SequenceNode
	)
	for _, cmd := range commands[start:] {
		if cmd == "" {
			continue
		}
		switch kindOf(cmd) {
		case visit.KindGroup:
			n, err := markerNumber(cmd)
			if err != nil {
				return nil, nil, fmt.Errorf("GROUP statement %q: %w", cmd, err)
			}
			curGroup = &visit.Group{Label: visit.GroupLabel(n), Number: n}
			curSeq = nil
			groups = append(groups, curGroup)

		case visit.KindSeq:
			n, err := markerNumber(cmd)
			if err != nil {
				return nil, nil, fmt.Errorf("SEQ statement %q: %w", cmd, err)
			}
			if curGroup == nil {
				return nil, nil, fmt.Errorf("%w: %q", ErrStraySequence, cmd)
			}
			curSeq = &visit.SequenceNode{Label: visit.SequenceLabel(n), Number: n}
			curGroup.Sequences = append(curGroup.Sequences, curSeq)

		case visit.KindSlew, visit.KindAct:
			if curSeq == nil {
				return nil, nil, fmt.Errorf("%w: %q", ErrStrayActivity, cmd)
			}
			act, err := b.activity(cmd, curGroup.Number, curSeq.Number)
			if err != nil {
				return nil, nil, err
			}
			curSeq.Activities = append(curSeq.Activities, act)
		}
	}
	return preamble, groups, nil
}

// markerNumber parses the group/sequence number: the leading
// whitespace-separated token of a GROUP or SEQ statement's first argument.
func markerNumber(cmd string) (int, error) {
	_, args := splitCommand(cmd)
	if len(args) == 0 {
		return 0, fmt.Errorf("missing number")
	}
	token := strings.Fields(args[0])
	if len(token) == 0 {
		return 0, fmt.Errorf("missing number")
	}
	n, err := strconv.Atoi(token[0])
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", token[0], err)
	}
	return n, nil
}

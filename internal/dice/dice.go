// Package dice parses and evaluates dice notation such as "1d20+2".
package dice

import (
	"regexp"
	"strconv"

	"github.com/openquest/gm-api/internal/errors"
)

// MaxDiceCount caps the number of dice in a single expression so that
// adversarial input like "999999d6" cannot exhaust resources.
const MaxDiceCount = 100

// Advantage selects how many throws are made and which one counts.
type Advantage string

// Advantage modes
const (
	AdvantageNone         Advantage = "none"
	AdvantageAdvantage    Advantage = "advantage"
	AdvantageDisadvantage Advantage = "disadvantage"
)

// ParseAdvantage normalizes a wire advantage value. The empty string
// means a plain single throw.
func ParseAdvantage(s string) (Advantage, error) {
	switch Advantage(s) {
	case "", AdvantageNone:
		return AdvantageNone, nil
	case AdvantageAdvantage:
		return AdvantageAdvantage, nil
	case AdvantageDisadvantage:
		return AdvantageDisadvantage, nil
	default:
		return "", errors.InvalidArgumentf("invalid advantage mode: %q", s)
	}
}

// Expression is a parsed dice notation string.
type Expression struct {
	Count    int `json:"count"`
	Sides    int `json:"sides"`
	Modifier int `json:"modifier"`
}

// Grammar: <count>d<sides>[+|-<modifier>], count optional.
var exprRegex = regexp.MustCompile(`^(\d*)d(\d+)([+-]\d+)?$`)

// Parse parses dice notation like "2d6+3" or "d20". Count defaults to 1
// and modifier to 0 when omitted. Malformed strings are rejected, never
// silently coerced.
func Parse(expr string) (Expression, error) {
	matches := exprRegex.FindStringSubmatch(expr)
	if matches == nil {
		return Expression{}, errors.InvalidArgumentf("invalid dice expression: %q (expected format: XdY+Z)", expr)
	}

	count := 1
	if matches[1] != "" {
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			// The regexp guarantees digits, so a parse failure means the
			// count overflowed int: out of range, not malformed.
			return Expression{}, errors.OutOfRangef("dice count exceeds maximum of %d: %q", MaxDiceCount, expr)
		}
		count = n
	}

	sides, err := strconv.Atoi(matches[2])
	if err != nil {
		return Expression{}, errors.InvalidArgumentf("invalid die size in expression: %q", expr)
	}

	modifier := 0
	if matches[3] != "" {
		m, err := strconv.Atoi(matches[3])
		if err != nil {
			return Expression{}, errors.InvalidArgumentf("invalid modifier in expression: %q", expr)
		}
		modifier = m
	}

	if count < 1 {
		return Expression{}, errors.OutOfRangef("dice count must be at least 1: %q", expr)
	}
	if count > MaxDiceCount {
		return Expression{}, errors.OutOfRangef("dice count exceeds maximum of %d: %q", MaxDiceCount, expr)
	}
	if sides < 2 {
		return Expression{}, errors.OutOfRangef("die must have at least 2 sides: %q", expr)
	}

	return Expression{Count: count, Sides: sides, Modifier: modifier}, nil
}

// String renders the expression back to canonical notation.
func (e Expression) String() string {
	s := strconv.Itoa(e.Count) + "d" + strconv.Itoa(e.Sides)
	if e.Modifier > 0 {
		s += "+" + strconv.Itoa(e.Modifier)
	} else if e.Modifier < 0 {
		s += strconv.Itoa(e.Modifier)
	}
	return s
}

// ThrowResult holds the outcome of evaluating an expression. The total
// is always derived from Rolls and Mod, never stored, so the two can
// never drift apart. Discarded keeps the non-selected throw of an
// advantage or disadvantage evaluation for the audit trail.
type ThrowResult struct {
	Rolls     []int `json:"rolls"`
	Mod       int   `json:"mod"`
	Discarded []int `json:"discarded,omitempty"`
}

// Total returns sum(Rolls) + Mod.
func (t ThrowResult) Total() int {
	total := t.Mod
	for _, roll := range t.Rolls {
		total += roll
	}
	return total
}

// DiscardedTotal returns the total the non-selected throw would have
// had. Only meaningful when Discarded is non-empty.
func (t ThrowResult) DiscardedTotal() int {
	total := t.Mod
	for _, roll := range t.Discarded {
		total += roll
	}
	return total
}

// Evaluate draws Count dice from the roller. For advantage and
// disadvantage the full throw is performed twice independently and the
// throw with the higher (advantage) or lower (disadvantage) total is
// selected; the other throw is retained as Discarded.
func Evaluate(expr Expression, adv Advantage, roller Roller) (*ThrowResult, error) {
	if expr.Count < 1 || expr.Count > MaxDiceCount || expr.Sides < 2 {
		return nil, errors.OutOfRangef("expression out of range: %s", expr)
	}
	if roller == nil {
		return nil, errors.InvalidArgument("roller is required")
	}

	first := throw(expr, roller)
	if adv == AdvantageNone || adv == "" {
		return &ThrowResult{Rolls: first, Mod: expr.Modifier}, nil
	}

	second := throw(expr, roller)
	selected, discarded := first, second
	if adv == AdvantageAdvantage && sum(second) > sum(first) {
		selected, discarded = second, first
	}
	if adv == AdvantageDisadvantage && sum(second) < sum(first) {
		selected, discarded = second, first
	}

	return &ThrowResult{Rolls: selected, Mod: expr.Modifier, Discarded: discarded}, nil
}

func throw(expr Expression, roller Roller) []int {
	rolls := make([]int, expr.Count)
	for i := range rolls {
		rolls[i] = roller.RollDie(expr.Sides)
	}
	return rolls
}

func sum(rolls []int) int {
	total := 0
	for _, roll := range rolls {
		total += roll
	}
	return total
}

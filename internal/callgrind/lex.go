package callgrind

import (
	"regexp"
	"strconv"
	"strings"
)

// Pure, stateless line recognizers. None of them touch parser state;
// the stateful parser decides what a match means in context.

var (
	rePositionsPrefix = regexp.MustCompile(`^positions:\s*(.*)$`)
	reEventsPrefix     = regexp.MustCompile(`^events:\s*(.*)$`)

	// reCostPosition matches the five cost-position axes (ob, fl, fi,
	// fe, fn) that begin or continue an entry's position block.
	reCostPosition = regexp.MustCompile(`^(ob|fl|fi|fe|fn)=[ \t]*(?:\((\d+)\))?[ \t]*(.*)$`)
	// reCallPosition matches the four call-position axes, with the
	// leading "c" stripped from the captured axis name so it maps onto
	// the same (binary, source, symbol) assignment as cost positions.
	reCallPosition = regexp.MustCompile(`^c(ob|fl|fi|fn)=[ \t]*(?:\((\d+)\))?[ \t]*(.*)$`)
	// reFileRedirect matches the subset of axes (fi, fe) that may
	// appear mid-cost-block to redirect the current source file.
	reFileRedirect = regexp.MustCompile(`^(fi|fe)=[ \t]*(?:\((\d+)\))?[ \t]*(.*)$`)

	reCallsPrefix = regexp.MustCompile(`^calls=\s*(.+)$`)
	reCostToken   = regexp.MustCompile(`^(?:\*|[+-]\d+|0[xX][0-9a-fA-F]+|\d+)$`)
	reIdentifier  = regexp.MustCompile(`^\w+$`)
)

var validPositionAxes = map[string]bool{"instr": true, "line": true, "bb": true}

func isEmptyLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// classifyHeader reports whether line is a "positions:"/"events:"
// header and, if so, returns the raw body after the colon.
func classifyHeader(line string) (isPositions, isEvents bool, body string) {
	if m := rePositionsPrefix.FindStringSubmatch(line); m != nil {
		return true, false, m[1]
	}
	if m := reEventsPrefix.FindStringSubmatch(line); m != nil {
		return false, true, m[1]
	}
	return false, false, ""
}

func parsePositionsBody(body string) ([]string, bool) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, false
	}
	for _, f := range fields {
		if !validPositionAxes[f] {
			return nil, false
		}
	}
	return fields, true
}

func parseEventsBody(body string) ([]string, bool) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, false
	}
	for _, f := range fields {
		if !reIdentifier.MatchString(f) {
			return nil, false
		}
	}
	return fields, true
}

// positionToken is the decomposition of a matched position line: the
// bare axis name (ob/fl/fi/fe/fn, "c" already stripped for call axes),
// an optional compression index, and an optional literal name.
type positionToken struct {
	Axis     string
	Index    uint64
	HasIndex bool
	Name     string
	HasName  bool
}

func matchPositionLine(re *regexp.Regexp, line string) (positionToken, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return positionToken{}, false
	}
	tok := positionToken{Axis: m[1]}
	if m[2] != "" {
		if idx, err := strconv.ParseUint(m[2], 10, 64); err == nil {
			tok.Index, tok.HasIndex = idx, true
		}
	}
	if m[3] != "" {
		tok.Name, tok.HasName = m[3], true
	}
	return tok, true
}

// parseCallsLine splits a "calls=N sub1 sub2 ..." line into its ncalls
// token and the raw sub-position tokens that follow it.
func parseCallsLine(line string) (ncalls string, subTokens []string, ok bool) {
	m := reCallsPrefix.FindStringSubmatch(line)
	if m == nil {
		return "", nil, false
	}
	fields := strings.Fields(m[1])
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// parseCostLineTokens recognizes a cost line at the grammar level only
// (every token matches `*`, `+N`, `-N`, decimal, or hex); it does not
// know how many tokens a valid cost line needs for the current file.
func parseCostLineTokens(line string) ([]string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	for _, f := range fields {
		if !reCostToken.MatchString(f) {
			return nil, false
		}
	}
	return fields, true
}

package callgrind

import (
	"bufio"
	"io"
)

// parseState names where the line-driven parse currently sits. The
// parser records each transition in parser.state; the transitions
// themselves follow the grammar rules implemented by run, parseEntry
// and parseCallBlock, and no parsing decision reads the state back.
type parseState int

const (
	stateHeader parseState = iota
	stateInEntry
	stateInCall
	stateAtBlank
)

// lineSource is a one-line-of-lookahead reader over the input, tracking
// the 1-based line number for error reporting.
type lineSource struct {
	scanner *bufio.Scanner
	line    string
	num     int
	done    bool
}

func newLineSource(r io.Reader) *lineSource {
	return &lineSource{scanner: bufio.NewScanner(r)}
}

func (s *lineSource) advance() bool {
	if !s.scanner.Scan() {
		s.done = true
		return false
	}
	s.line = s.scanner.Text()
	s.num++
	return true
}

// parser drives a single pass over the input, owning the compression
// caches, the sub-position register, and the current-position scratch
// record. None of this state survives past Parse returning.
type parser struct {
	state parseState

	objectCache *compressionCache
	fileCache   *compressionCache
	symbolCache *compressionCache
	subPos      *subPositionRegister

	events    []string
	positions []string

	current Position // carries forward across entries and calls; never reset
	posTbl  map[string]*Position

	entries []*Entry
	src     *lineSource
}

// Parse decodes a Callgrind dump from r into an immutable Model. Any
// fatal condition aborts the parse and returns a *ParseError; there is
// no partial-model fallback.
func Parse(r io.Reader) (*Model, error) {
	p := &parser{
		state:       stateHeader,
		objectCache: newCompressionCache(),
		fileCache:   newCompressionCache(),
		symbolCache: newCompressionCache(),
		subPos:      newSubPositionRegister(0),
		posTbl:      make(map[string]*Position),
		src:         newLineSource(r),
	}
	runErr := p.run()
	if err := p.src.scanner.Err(); err != nil {
		return nil, newParseError(p.src.num, IoError, err)
	}
	if runErr != nil {
		return nil, runErr
	}
	return buildModel(p.events, p.positions, p.entries), nil
}

func (p *parser) fatal(kind ErrorKind) error {
	return newParseError(p.src.num, kind, nil)
}

// run is the File-level loop: File := Header* (Entry | BlankLine)*.
func (p *parser) run() error {
	if !p.src.advance() {
		return nil
	}
	for !p.src.done {
		line := p.src.line

		if isEmptyLine(line) {
			p.state = stateAtBlank
			p.src.advance()
			continue
		}

		if isPositions, isEvents, body := classifyHeader(line); isPositions || isEvents {
			p.state = stateHeader
			if isPositions {
				axes, ok := parsePositionsBody(body)
				if !ok {
					return p.fatal(MalformedHeader)
				}
				p.positions = axes
				p.subPos.resize(len(axes))
			} else {
				names, ok := parseEventsBody(body)
				if !ok {
					return p.fatal(MalformedHeader)
				}
				p.events = names
			}
			p.src.advance()
			continue
		}

		if tok, ok := matchPositionLine(reCostPosition, line); ok {
			p.state = stateInEntry
			entry, err := p.parseEntry(tok)
			if err != nil {
				return err
			}
			p.entries = append(p.entries, entry)
			continue
		}

		// A non-empty, non-header, non-position line seen outside any
		// entry isn't part of the grammar but also isn't a fatal
		// condition on its own; skip it and keep scanning for the next
		// header or entry.
		p.src.advance()
	}
	return nil
}

// parseEntry consumes Entry := CostPosLine+ CostLine (CostLine |
// FileRedirect)* CallBlock* BlankLine, having already matched the first
// CostPosLine as tok.
func (p *parser) parseEntry(tok positionToken) (*Entry, error) {
	if err := p.applyPositionToken(&p.current, tok); err != nil {
		return nil, err
	}
	for {
		if !p.src.advance() {
			return nil, p.fatal(MissingCostLine)
		}
		if t, ok := matchPositionLine(reCostPosition, p.src.line); ok {
			if err := p.applyPositionToken(&p.current, t); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	entry := &Entry{Position: p.internPosition(p.current)}

	spec, ok, err := p.tryCostSpec(p.src.line)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.fatal(MissingCostLine)
	}
	entry.Costs = append(entry.Costs, spec)

	for p.src.advance() {
		line := p.src.line
		if spec, ok, err := p.tryCostSpec(line); err != nil {
			return nil, err
		} else if ok {
			entry.Costs = append(entry.Costs, spec)
			continue
		}
		if t, ok := matchPositionLine(reFileRedirect, line); ok {
			if err := p.applyFileRedirect(t); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	for {
		if p.src.done {
			break
		}
		line := p.src.line
		if isEmptyLine(line) {
			p.state = stateAtBlank
			p.src.advance()
			break
		}
		if t, ok := matchPositionLine(reCallPosition, line); ok {
			p.state = stateInCall
			call, err := p.parseCallBlock(t)
			if err != nil {
				return nil, err
			}
			entry.Calls = append(entry.Calls, call)
			continue
		}
		return nil, p.fatal(UnexpectedLine)
	}

	return entry, nil
}

// parseCallBlock consumes CallBlock := CallPosLine+ CallLine CostLine
// (CostLine | FileRedirect)*, having already matched the first
// CallPosLine as tok.
func (p *parser) parseCallBlock(tok positionToken) (*Call, error) {
	callPos := p.current
	if err := p.applyPositionToken(&callPos, tok); err != nil {
		return nil, err
	}
	for {
		if !p.src.advance() {
			return nil, p.fatal(MissingCallLine)
		}
		if t, ok := matchPositionLine(reCallPosition, p.src.line); ok {
			if err := p.applyPositionToken(&callPos, t); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	ncallsTok, subTokens, ok := parseCallsLine(p.src.line)
	if !ok {
		return nil, p.fatal(MissingCallLine)
	}
	if len(subTokens) != len(p.positions) {
		return nil, p.fatal(MissingCallLine)
	}
	ncalls, err := parseUint64(ncallsTok)
	if err != nil {
		return nil, p.fatal(NumericOverflow)
	}
	subPositions, err := p.resolveSubPositions(subTokens)
	if err != nil {
		return nil, err
	}

	call := &Call{
		NCalls:       ncalls,
		SubPositions: subPositions,
		Callee:       &Entry{Position: p.internPosition(callPos)},
	}

	if !p.src.advance() {
		return nil, p.fatal(MissingCostLine)
	}
	spec, ok, err := p.tryCostSpec(p.src.line)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.fatal(MissingCostLine)
	}
	call.Costs = append(call.Costs, spec)

	for p.src.advance() {
		line := p.src.line
		if spec, ok, err := p.tryCostSpec(line); err != nil {
			return nil, err
		} else if ok {
			call.Costs = append(call.Costs, spec)
			continue
		}
		if t, ok := matchPositionLine(reFileRedirect, line); ok {
			if err := p.applyFileRedirect(t); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	return call, nil
}

// applyPositionToken resolves tok's name (handling compression bind or
// lookup) and writes it onto the relevant axis of dst.
func (p *parser) applyPositionToken(dst *Position, tok positionToken) error {
	name, err := p.resolveCompressedName(tok)
	if err != nil {
		return err
	}
	switch tok.Axis {
	case "ob":
		dst.Binary = name
	case "fl", "fi", "fe":
		dst.Source = name
	case "fn":
		dst.Symbol = name
	default:
		return p.fatal(UnknownPositionAxis)
	}
	return nil
}

// applyFileRedirect applies an interleaved fi=/fe= line to the parser's
// persistent current_position without ending the enclosing cost block.
func (p *parser) applyFileRedirect(tok positionToken) error {
	name, err := p.resolveCompressedName(tok)
	if err != nil {
		return err
	}
	p.current.Source = name
	return nil
}

func (p *parser) cacheForAxis(axis string) *compressionCache {
	switch axis {
	case "ob":
		return p.objectCache
	case "fl", "fi", "fe":
		return p.fileCache
	case "fn":
		return p.symbolCache
	default:
		return nil
	}
}

func (p *parser) resolveCompressedName(tok positionToken) (string, error) {
	cache := p.cacheForAxis(tok.Axis)
	if cache == nil {
		return "", p.fatal(UnknownPositionAxis)
	}
	if tok.HasName {
		if tok.HasIndex && !cache.bind(tok.Index, tok.Name) {
			return "", p.fatal(DuplicateCompressionEntry)
		}
		return tok.Name, nil
	}
	if tok.HasIndex {
		name, found := cache.lookup(tok.Index)
		if !found {
			return "", p.fatal(MissingCompressionEntry)
		}
		return name, nil
	}
	return "", p.fatal(UnexpectedLine)
}

// tryCostSpec recognizes a cost line both at the grammar level and at
// the exact-arity level (|positions|+|events| tokens); a syntactically
// cost-line-shaped line with the wrong arity is reported as "not a cost
// line" rather than guessing at an implicit prefix.
func (p *parser) tryCostSpec(line string) (CostSpec, bool, error) {
	toks, ok := parseCostLineTokens(line)
	if !ok {
		return CostSpec{}, false, nil
	}
	want := len(p.positions) + len(p.events)
	if len(toks) != want {
		return CostSpec{}, false, nil
	}
	spec, err := p.decodeCostSpec(toks)
	if err != nil {
		return CostSpec{}, false, err
	}
	return spec, true, nil
}

func (p *parser) decodeCostSpec(toks []string) (CostSpec, error) {
	n := len(p.positions)
	subPositions, err := p.resolveSubPositions(toks[:n])
	if err != nil {
		return CostSpec{}, err
	}
	costToks := toks[n:]
	costs := make([]uint64, len(costToks))
	for i, t := range costToks {
		v, err := parseUint64(t)
		if err != nil {
			return CostSpec{}, p.fatal(NumericOverflow)
		}
		costs[i] = v
	}
	return CostSpec{SubPositions: subPositions, Costs: costs}, nil
}

func (p *parser) resolveSubPositions(toks []string) ([]uint64, error) {
	out := make([]uint64, len(toks))
	for i, t := range toks {
		v, err := p.subPos.resolve(i, t)
		if err != nil {
			return nil, p.fatal(NumericOverflow)
		}
		out[i] = v
	}
	return out, nil
}

// internPosition returns the canonical *Position for pos, creating one
// on first sight. Content-addressing here means two position blocks
// naming the same binary/source/symbol triple share one pointer, so the
// graph post-processor can merge/rewrite by pointer identity instead of
// comparing Position values.
func (p *parser) internPosition(pos Position) *Position {
	key := pos.Binary + "\x00" + pos.Source + "\x00" + pos.Symbol
	if existing, ok := p.posTbl[key]; ok {
		return existing
	}
	canon := pos
	p.posTbl[key] = &canon
	return &canon
}

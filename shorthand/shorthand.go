package shorthand

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/riskgraph/faulttree/gate"
	"github.com/riskgraph/faulttree/ident"
	"github.com/riskgraph/faulttree/tree"
)

var (
	basicDefPattern = regexp.MustCompile(`^p\(([^)]*)\)\s*=\s*(.+)$`)
	houseDefPattern = regexp.MustCompile(`^s\(([^)]*)\)\s*=\s*(true|false)$`)
	atleastPattern  = regexp.MustCompile(`^@\(\s*(\d+)\s*,\s*\[(.*)\]\s*\)$`)
)

// Parse reads a line-oriented fault-tree description from r and returns
// the resulting tree.FaultTree, already populated (late-bound references
// resolved, root and cycle checks run). opts configure the FaultTree
// before any statement is added (e.g. tree.WithMultiTop, tree.WithSink).
func Parse(r io.Reader, opts ...tree.Option) (*tree.FaultTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var ft *tree.FaultTree
	lineNo := 0
	haveName := false

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !haveName {
			name, err := ident.Parse(line)
			if err != nil {
				return nil, parsingErr(lineNo, "invalid fault-tree name %q: %v", line, err)
			}
			ft = tree.New(name, opts...)
			haveName = true
			continue
		}

		if err := parseStatement(ft, line, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !haveName {
		return nil, formatErr(0, "missing fault-tree name")
	}

	if err := ft.Populate(); err != nil {
		return nil, &FaultTreeError{Line: 0, Err: err}
	}
	return ft, nil
}

func parseStatement(ft *tree.FaultTree, line string, lineNo int) error {
	switch {
	case strings.HasPrefix(line, "p("):
		return parseBasicDef(ft, line, lineNo)
	case strings.HasPrefix(line, "s("):
		return parseHouseDef(ft, line, lineNo)
	case strings.Contains(line, ":="):
		return parseGateDef(ft, line, lineNo)
	default:
		if _, err := ident.Parse(line); err == nil {
			return formatErr(lineNo, "duplicate fault-tree name statement %q", line)
		}
		return parsingErr(lineNo, "unrecognized statement %q", line)
	}
}

func parseBasicDef(ft *tree.FaultTree, line string, lineNo int) error {
	m := basicDefPattern.FindStringSubmatch(line)
	if m == nil {
		return formatErr(lineNo, "malformed basic-event definition %q", line)
	}
	name, err := ident.Parse(strings.TrimSpace(m[1]))
	if err != nil {
		return parsingErr(lineNo, "invalid basic-event name %q: %v", m[1], err)
	}
	prob, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
	if err != nil {
		return parsingErr(lineNo, "invalid probability literal %q", m[2])
	}
	if _, err := ft.AddBasicEvent(name, prob); err != nil {
		return &FaultTreeError{Line: lineNo, Err: err}
	}
	return nil
}

func parseHouseDef(ft *tree.FaultTree, line string, lineNo int) error {
	m := houseDefPattern.FindStringSubmatch(line)
	if m == nil {
		return formatErr(lineNo, "malformed house-event definition %q", line)
	}
	name, err := ident.Parse(strings.TrimSpace(m[1]))
	if err != nil {
		return parsingErr(lineNo, "invalid house-event name %q: %v", m[1], err)
	}
	if _, err := ft.AddHouseEvent(name, m[2] == "true"); err != nil {
		return &FaultTreeError{Line: lineNo, Err: err}
	}
	return nil
}

func parseGateDef(ft *tree.FaultTree, line string, lineNo int) error {
	idx := strings.Index(line, ":=")
	namePart := strings.TrimSpace(line[:idx])
	formulaPart := strings.TrimSpace(line[idx+2:])

	name, err := ident.Parse(namePart)
	if err != nil {
		return parsingErr(lineNo, "invalid gate name %q: %v", namePart, err)
	}
	if formulaPart == "" {
		return formatErr(lineNo, "gate %q has an empty formula", namePart)
	}

	op, kNum, args, err := parseFormula(formulaPart, lineNo)
	if err != nil {
		return err
	}

	if _, err := ft.AddGate(name, op, args, kNum); err != nil {
		return &FaultTreeError{Line: lineNo, Err: err}
	}
	return nil
}

// parseFormula parses the right-hand side of a gate definition into an
// operator, its k_num (meaningful only for ATLEAST), and its argument
// list.
func parseFormula(s string, lineNo int) (gate.Operator, int, []tree.GateArgSpec, error) {
	s = strings.TrimSpace(s)
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth < 0 {
			break
		}
	}
	if depth != 0 {
		return 0, 0, nil, formatErr(lineNo, "mismatched parentheses in %q", s)
	}
	for {
		stripped, ok := stripOuterParens(s)
		if !ok {
			break
		}
		s = strings.TrimSpace(stripped)
	}
	if s == "" {
		return 0, 0, nil, formatErr(lineNo, "empty formula after stripping parentheses")
	}

	if strings.HasPrefix(s, "@(") {
		return parseAtleast(s, lineNo)
	}
	if strings.HasPrefix(s, "~") && !strings.ContainsAny(s[1:], "|^&") {
		rest := strings.TrimSpace(s[1:])
		if strings.ContainsAny(rest, "~@") {
			return 0, 0, nil, parsingErr(lineNo, "NOT accepts a single name, got %q", s)
		}
		name, err := ident.Parse(rest)
		if err != nil {
			return 0, 0, nil, parsingErr(lineNo, "invalid NOT argument %q: %v", rest, err)
		}
		return gate.NOT, 0, []tree.GateArgSpec{{Name: name.String()}}, nil
	}

	hasXor := strings.Contains(s, "^")
	hasOr := strings.Contains(s, "|")
	hasAnd := strings.Contains(s, "&")
	count := 0
	for _, b := range []bool{hasXor, hasOr, hasAnd} {
		if b {
			count++
		}
	}
	if count > 1 {
		return 0, 0, nil, parsingErr(lineNo, "mixed operators in %q: use parentheses to disambiguate", s)
	}

	switch {
	case hasXor:
		parts := strings.Split(s, "^")
		if len(parts) != 2 {
			return 0, 0, nil, parsingErr(lineNo, "XOR requires exactly 2 operands, got %q", s)
		}
		args, err := parseLiterals(parts, lineNo)
		if err != nil {
			return 0, 0, nil, err
		}
		return gate.XOR, 0, args, nil

	case hasOr:
		args, err := parseLiterals(strings.Split(s, "|"), lineNo)
		if err != nil {
			return 0, 0, nil, err
		}
		return gate.OR, 0, args, nil

	case hasAnd:
		args, err := parseLiterals(strings.Split(s, "&"), lineNo)
		if err != nil {
			return 0, 0, nil, err
		}
		return gate.AND, 0, args, nil

	default:
		arg, err := parseLiteral(s, lineNo)
		if err != nil {
			return 0, 0, nil, err
		}
		return gate.NULL, 0, []tree.GateArgSpec{arg}, nil
	}
}

func parseAtleast(s string, lineNo int) (gate.Operator, int, []tree.GateArgSpec, error) {
	m := atleastPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, nil, formatErr(lineNo, "malformed ATLEAST formula %q", s)
	}
	k, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, nil, parsingErr(lineNo, "invalid k in ATLEAST formula %q", s)
	}
	items := strings.Split(m[2], ",")
	args, err := parseLiterals(items, lineNo)
	if err != nil {
		return 0, 0, nil, err
	}
	return gate.ATLEAST, k, args, nil
}

func parseLiterals(toks []string, lineNo int) ([]tree.GateArgSpec, error) {
	args := make([]tree.GateArgSpec, 0, len(toks))
	for _, t := range toks {
		a, err := parseLiteral(t, lineNo)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func parseLiteral(tok string, lineNo int) (tree.GateArgSpec, error) {
	tok = strings.TrimSpace(tok)
	complement := false
	if strings.HasPrefix(tok, "~") {
		complement = true
		tok = strings.TrimSpace(tok[1:])
	}
	name, err := ident.Parse(tok)
	if err != nil {
		return tree.GateArgSpec{}, parsingErr(lineNo, "invalid literal %q: %v", tok, err)
	}
	return tree.GateArgSpec{Name: name.String(), Complement: complement}, nil
}

// stripOuterParens removes one layer of parentheses that wraps the whole
// string, returning ok=false if s is not fully enclosed by a single
// matching pair (a leading "(" whose matching ")" is the last rune).
func stripOuterParens(s string) (string, bool) {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s, false
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s, false
			}
		}
	}
	return s[1 : len(s)-1], true
}

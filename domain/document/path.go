package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a parsed path expression. Expressions follow a JSONPath-like
// syntax rooted at "$":
//
//	$.name           direct member access
//	$["odd name"]    quoted member access
//	$[3]             array index
//	$.*  /  $[*]     wildcard over all members or elements
//	$..name          recursive descent, matching at any depth
//	$[?(@.f == 1)]   filter: elements/members whose field f equals a literal
//
// Segments compose left to right. Parse once, resolve many times.
type Path struct {
	raw      string
	segments []segment
}

type segmentKind int

const (
	segChild segmentKind = iota
	segIndex
	segWildcard
	segRecursive
	segFilter
)

type segment struct {
	kind    segmentKind
	name    string // segChild, segRecursive ("*" matches anything)
	index   int    // segIndex
	field   string // segFilter
	negate  bool   // segFilter: != instead of ==
	literal any    // segFilter
}

// ParsePath parses a path expression. The empty expression and any
// syntactically malformed expression yield an error; an expression that
// is well formed but matches nothing is not an error.
func ParsePath(expr string) (Path, error) {
	if expr == "" {
		return Path{}, fmt.Errorf("empty path expression")
	}
	if expr[0] != '$' {
		return Path{}, fmt.Errorf("path %q: must start with $", expr)
	}

	p := Path{raw: expr}
	i := 1
	for i < len(expr) {
		switch expr[i] {
		case '.':
			if i+1 < len(expr) && expr[i+1] == '.' {
				name, n, err := parseName(expr, i+2)
				if err != nil {
					return Path{}, fmt.Errorf("path %q: %w", expr, err)
				}
				p.segments = append(p.segments, segment{kind: segRecursive, name: name})
				i = n
			} else {
				name, n, err := parseName(expr, i+1)
				if err != nil {
					return Path{}, fmt.Errorf("path %q: %w", expr, err)
				}
				if name == "*" {
					p.segments = append(p.segments, segment{kind: segWildcard})
				} else {
					p.segments = append(p.segments, segment{kind: segChild, name: name})
				}
				i = n
			}
		case '[':
			seg, n, err := parseBracket(expr, i)
			if err != nil {
				return Path{}, fmt.Errorf("path %q: %w", expr, err)
			}
			p.segments = append(p.segments, seg)
			i = n
		default:
			return Path{}, fmt.Errorf("path %q: unexpected character %q at offset %d", expr, expr[i], i)
		}
	}
	return p, nil
}

// MustParsePath is ParsePath that panics on error, for fixed expressions.
func MustParsePath(expr string) Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the original expression text.
func (p Path) String() string { return p.raw }

// IsRoot reports whether the path addresses only the document root.
func (p Path) IsRoot() bool { return len(p.segments) == 0 }

// parseName scans a bare member name (or "*") starting at i and returns
// the name and the offset past it.
func parseName(expr string, i int) (string, int, error) {
	if i < len(expr) && expr[i] == '*' {
		return "*", i + 1, nil
	}
	j := i
	for j < len(expr) && expr[j] != '.' && expr[j] != '[' {
		j++
	}
	if j == i {
		return "", 0, fmt.Errorf("expected member name at offset %d", i)
	}
	return expr[i:j], j, nil
}

// parseBracket scans one bracketed segment starting at the '[' at i.
func parseBracket(expr string, i int) (segment, int, error) {
	end := closingBracket(expr, i)
	if end < 0 {
		return segment{}, 0, fmt.Errorf("unterminated '[' at offset %d", i)
	}
	body := strings.TrimSpace(expr[i+1 : end])
	next := end + 1

	switch {
	case body == "*":
		return segment{kind: segWildcard}, next, nil

	case len(body) > 1 && (body[0] == '\'' || body[0] == '"'):
		name, err := unquote(body)
		if err != nil {
			return segment{}, 0, err
		}
		return segment{kind: segChild, name: name}, next, nil

	case strings.HasPrefix(body, "?("):
		if !strings.HasSuffix(body, ")") {
			return segment{}, 0, fmt.Errorf("malformed filter %q", body)
		}
		seg, err := parseFilter(strings.TrimSpace(body[2 : len(body)-1]))
		if err != nil {
			return segment{}, 0, err
		}
		return seg, next, nil

	default:
		idx, err := strconv.Atoi(body)
		if err != nil || idx < 0 {
			return segment{}, 0, fmt.Errorf("invalid index %q", body)
		}
		return segment{kind: segIndex, index: idx}, next, nil
	}
}

// closingBracket finds the index of the ']' matching the '[' at open,
// skipping over quoted strings inside filter literals.
func closingBracket(expr string, open int) int {
	var quote byte
	for j := open + 1; j < len(expr); j++ {
		c := expr[j]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case ']':
			return j
		}
	}
	return -1
}

// parseFilter parses a predicate of the form `@.field == literal` or
// `@.field != literal`.
func parseFilter(body string) (segment, error) {
	if !strings.HasPrefix(body, "@.") {
		return segment{}, fmt.Errorf("filter %q: must reference a field as @.name", body)
	}
	rest := body[2:]

	op := "=="
	k := strings.Index(rest, "==")
	if k < 0 {
		op = "!="
		k = strings.Index(rest, "!=")
	}
	if k < 0 {
		return segment{}, fmt.Errorf("filter %q: expected == or !=", body)
	}

	field := strings.TrimSpace(rest[:k])
	if field == "" {
		return segment{}, fmt.Errorf("filter %q: empty field name", body)
	}
	lit, err := parseLiteral(strings.TrimSpace(rest[k+2:]))
	if err != nil {
		return segment{}, fmt.Errorf("filter %q: %w", body, err)
	}
	return segment{kind: segFilter, field: field, negate: op == "!=", literal: lit}, nil
}

// parseLiteral parses a filter comparison literal: a quoted string, a
// number, true, false, or null.
func parseLiteral(s string) (any, error) {
	switch {
	case s == "":
		return nil, fmt.Errorf("missing literal")
	case s == "null":
		return nil, nil
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case s[0] == '\'' || s[0] == '"':
		return unquote(s)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid literal %q", s)
	}
	return n, nil
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return "", fmt.Errorf("unterminated string %q", s)
	}
	return s[1 : len(s)-1], nil
}

package sd

import (
	"fmt"
	"sort"
	"strings"
)

// Quad is one parsed N-Quad line: subject, predicate, object (each in their
// original N-Quads token form, e.g. "<iri>", "_:label", or a quoted
// literal), and an optional graph name.
type Quad struct {
	Subject   string
	Predicate string
	Object    string
	Graph     string
}

// String reserializes q back into canonical N-Quads line form.
func (q Quad) String() string {
	var b strings.Builder
	b.WriteString(q.Subject)
	b.WriteByte(' ')
	b.WriteString(q.Predicate)
	b.WriteByte(' ')
	b.WriteString(q.Object)
	if q.Graph != "" {
		b.WriteByte(' ')
		b.WriteString(q.Graph)
	}
	b.WriteString(" .")
	return b.String()
}

// ParseNQuads parses a canonical N-Quads document (one statement per line,
// as emitted by pkg/canon.RDFC) into an ordered slice of Quad. Unlike a
// general N-Quads grammar, this assumes URDNA2015's canonical output:
// exactly one space between tokens outside of quoted literals, and no
// comments or blank lines other than a possible trailing newline.
func ParseNQuads(text string) ([]Quad, error) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	quads := make([]Quad, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		q, err := parseQuadLine(line)
		if err != nil {
			return nil, fmt.Errorf("sd: malformed N-Quad at line %d: %w", i, err)
		}
		quads = append(quads, q)
	}
	return quads, nil
}

// parseQuadLine tokenizes one line into its subject/predicate/object/graph
// terms. Terms are whitespace-delimited except inside a quoted literal
// (which may itself be followed, without a space, by a language tag or a
// datatype IRI).
func parseQuadLine(line string) (Quad, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ".")
	line = strings.TrimSpace(line)

	tokens, err := tokenizeQuad(line)
	if err != nil {
		return Quad{}, err
	}
	if len(tokens) < 3 || len(tokens) > 4 {
		return Quad{}, fmt.Errorf("expected 3 or 4 terms, got %d: %q", len(tokens), line)
	}

	q := Quad{Subject: tokens[0], Predicate: tokens[1], Object: tokens[2]}
	if len(tokens) == 4 {
		q.Graph = tokens[3]
	}
	return q, nil
}

// tokenizeQuad splits line into its whitespace-delimited terms, treating a
// double-quoted span (with backslash escapes) as a single token that
// continues through any immediately following "^^<...>" datatype or "@lang"
// language suffix.
func tokenizeQuad(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	i := 0
	n := len(line)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i < n {
		ch := line[i]
		switch {
		case ch == ' ' || ch == '\t':
			flush()
			i++
		case ch == '"':
			start := i
			i++
			escaped := false
			for i < n {
				c := line[i]
				if escaped {
					escaped = false
					i++
					continue
				}
				if c == '\\' {
					escaped = true
					i++
					continue
				}
				if c == '"' {
					i++
					break
				}
				i++
			}
			cur.WriteString(line[start:i])
			// Consume an optional @lang or ^^<datatype> suffix with no
			// intervening space.
			if i < n && line[i] == '@' {
				start := i
				i++
				for i < n && line[i] != ' ' {
					i++
				}
				cur.WriteString(line[start:i])
			} else if i+1 < n && line[i] == '^' && line[i+1] == '^' {
				start := i
				i += 2
				for i < n && line[i] != ' ' {
					i++
				}
				cur.WriteString(line[start:i])
			}
		default:
			cur.WriteByte(ch)
			i++
		}
	}
	flush()
	return tokens, nil
}

// IsBlankNode reports whether term is a blank node identifier ("_:...").
func IsBlankNode(term string) bool {
	return strings.HasPrefix(term, "_:")
}

// BlankNodeLabel returns the label part of a blank node term (without the
// "_:" prefix). The caller must check IsBlankNode first.
func BlankNodeLabel(term string) string {
	return strings.TrimPrefix(term, "_:")
}

// sortQuads returns a copy of quads sorted by their canonical N-Quads line
// form, matching the ordering URDNA2015 output is already expected to have.
func sortQuads(quads []Quad) []Quad {
	out := make([]Quad, len(quads))
	copy(out, quads)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

package sd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/herculas/vc-suite-ecdsa/pkg/canon"
)

// Groups names a set of JSON Pointer lists, keyed by group name, to be
// matched against a canonicalized document. spec.md §4.5.1/§4.5.2 use three
// such groups in practice: "mandatory", "selective" (non-mandatory), and,
// at derive time, their union "combined".
type Groups map[string][]string

// Group is one named group's matching quads, keyed by their absolute index
// in the full document's canonical, HMAC-relabeled quad list.
type Group struct {
	Matching map[int]Quad
}

// GroupedDocument is the result of canonicalizeAndGroup: the full document
// reduced to canonical, HMAC-relabeled N-Quads, along with the label map
// that produced them and each requested group's matching subset.
type GroupedDocument struct {
	Quads          []Quad
	LabelMap       map[string]string // c14nN -> HMAC label
	Groups         map[string]Group
	PathToSkolemID map[string]string
	RootID         string
}

// canonicalizeAndGroup implements the shared core of spec.md §4.5.1 step 3
// and §4.5.2 step 3: canonicalize doc, replace its blank-node labels with
// HMAC-derived ones, and partition the resulting statements into the named
// pointer groups.
//
// Blank nodes are skolemized to "urn:bnid:N" IRIs before canonicalization
// (see skolem.go). This keeps canonical output stable regardless of which
// subset of the graph a later reveal document contains, which is what lets
// the holder and verifier independently recompute the same quad indices
// without access to each other's intermediate state.
func canonicalizeAndGroup(rdfc *canon.RDFC, doc map[string]interface{}, groups Groups, labelFn HMACLabelFunc) (*GroupedDocument, error) {
	skolemized, rootID, pathToID := skolemize(doc)

	canonical, err := rdfc.Canonicalize(skolemized)
	if err != nil {
		return nil, fmt.Errorf("%w: canonicalizing document: %v", ErrProofGeneration, err)
	}
	quads, err := ParseNQuads(string(canonical))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	deskolemized := deskolemizeQuads(quads)
	hmacQuads, labelMap := RelabelQuads(deskolemized, labelFn)

	adjacency := make(map[string][]int, len(deskolemized))
	knownTerms := make(map[string]bool, len(pathToID))
	for _, id := range pathToID {
		knownTerms[deskolemizeTerm(skolemTermForID(id))] = true
	}
	for i, q := range deskolemized {
		adjacency[q.Subject] = append(adjacency[q.Subject], i)
	}

	result := &GroupedDocument{
		Quads:          hmacQuads,
		LabelMap:       labelMap,
		Groups:         make(map[string]Group, len(groups)),
		PathToSkolemID: pathToID,
		RootID:         rootID,
	}

	for name, pointers := range groups {
		matching := make(map[int]Quad)
		for _, ptr := range pointers {
			idxs, err := matchPointer(doc, ptr, pathToID, adjacency, knownTerms, deskolemized)
			if err != nil {
				return nil, fmt.Errorf("%w: pointer %q: %v", ErrProofGeneration, ptr, err)
			}
			for _, idx := range idxs {
				matching[idx] = hmacQuads[idx]
			}
		}
		result.Groups[name] = Group{Matching: matching}
	}
	return result, nil
}

// NonMatching returns every quad in the full document not included in the
// named group's matching set.
func (g *GroupedDocument) NonMatching(groupName string) map[int]Quad {
	matching := g.Groups[groupName].Matching
	out := make(map[int]Quad, len(g.Quads)-len(matching))
	for i, q := range g.Quads {
		if _, ok := matching[i]; !ok {
			out[i] = q
		}
	}
	return out
}

// matchPointer resolves one JSON Pointer against doc and returns the
// absolute indices (into deskolemized/hmacQuads, which share ordering) of
// every statement the pointer discloses: the full reachable subtree when
// the pointer targets an object or array, or the single matching statement
// when it targets a scalar leaf.
func matchPointer(doc map[string]interface{}, ptr string, pathToID map[string]string, adjacency map[string][]int, knownTerms map[string]bool, quads []Quad) ([]int, error) {
	if ptr == "" || ptr == "/" {
		return bfsSubtree(pathToID[""], adjacency, knownTerms, quads), nil
	}

	p, err := jsonpointer.New(ptr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON Pointer: %w", err)
	}
	val, _, err := p.Get(doc)
	if err != nil {
		return nil, fmt.Errorf("resolving pointer: %w", err)
	}

	switch val.(type) {
	case map[string]interface{}, []interface{}:
		id, ok := pathToID[ptr]
		if !ok {
			return nil, fmt.Errorf("no node recorded at pointer %q", ptr)
		}
		return bfsSubtree(id, adjacency, knownTerms, quads), nil
	default:
		parent := parentPointer(ptr)
		parentID, ok := pathToID[parent]
		if !ok {
			return nil, fmt.Errorf("no node recorded at parent pointer %q", parent)
		}
		subjectTerm := deskolemizeTerm(skolemTermForID(parentID))
		wantLiteral := formatLiteral(val)
		var idxs []int
		for _, i := range adjacency[subjectTerm] {
			if quads[i].Object == wantLiteral {
				idxs = append(idxs, i)
			}
		}
		return idxs, nil
	}
}

// bfsSubtree returns every statement reachable from id: its own statements,
// plus (recursively) the statements of any object term that is itself a
// document node (blank or named), so that disclosing an object also
// discloses its nested structure.
func bfsSubtree(id string, adjacency map[string][]int, knownTerms map[string]bool, quads []Quad) []int {
	start := deskolemizeTerm(skolemTermForID(id))
	visitedSubjects := make(map[string]bool)
	included := make(map[int]bool)
	queue := []string{start}

	for len(queue) > 0 {
		subj := queue[0]
		queue = queue[1:]
		if visitedSubjects[subj] {
			continue
		}
		visitedSubjects[subj] = true

		for _, i := range adjacency[subj] {
			included[i] = true
			obj := quads[i].Object
			if knownTerms[obj] && !visitedSubjects[obj] {
				queue = append(queue, obj)
			}
		}
	}

	result := make([]int, 0, len(included))
	for i := range included {
		result = append(result, i)
	}
	return result
}

func parentPointer(ptr string) string {
	idx := strings.LastIndex(ptr, "/")
	if idx <= 0 {
		return ""
	}
	return ptr[:idx]
}

// formatLiteral renders a decoded JSON value as an N-Quads object literal
// for comparison against json-gold's RDFC output. Booleans get
// xsd:boolean, integral numbers xsd:integer, and other numbers xsd:double
// (formatted with strconv's 'g' verb); strings and any other value are
// plain literals.
func formatLiteral(val interface{}) string {
	switch v := val.(type) {
	case string:
		return `"` + escapeLiteral(v) + `"`
	case bool:
		return fmt.Sprintf(`"%t"^^<http://www.w3.org/2001/XMLSchema#boolean>`, v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf(`"%s"^^<http://www.w3.org/2001/XMLSchema#integer>`, strconv.FormatInt(int64(v), 10))
		}
		return fmt.Sprintf(`"%s"^^<http://www.w3.org/2001/XMLSchema#double>`, strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return fmt.Sprintf(`"%v"`, v)
	}
}

func escapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	return s
}

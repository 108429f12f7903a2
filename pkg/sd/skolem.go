package sd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const skolemPrefix = "urn:bnid:"

// skolemize walks doc and assigns every object, the document root
// included, that carries no "id" of its own a synthetic identifier
// "urn:bnid:<n>", recording the JSON Pointer path leading to it. This is
// the same blank-node-to-URN trick dc4eu-vc's sd_helpers.go uses
// (replaceURNs/replaceLabelsWithURNs) to make canonicalization output
// stable under subsetting, generalized here to run before canonicalization
// rather than as an ad hoc string patch afterward, and driven by real tree
// traversal instead of a labelMap built by a separate pass.
//
// It returns the rewritten document (safe to feed to RDFC), the root's
// identifier (its own "id" if present, otherwise its synthetic one), and a
// map from JSON Pointer path to the node identifier assigned at that path
// (including the root, stored under pointer "").
func skolemize(doc map[string]interface{}) (map[string]interface{}, string, map[string]string) {
	pathToID := make(map[string]string)
	counter := 0

	var walk func(node interface{}, pointer string, isRoot bool) interface{}
	walk = func(node interface{}, pointer string, isRoot bool) interface{} {
		switch v := node.(type) {
		case map[string]interface{}:
			out := make(map[string]interface{}, len(v))
			for k, val := range v {
				out[k] = val
			}

			id, hasID := out["id"].(string)
			if !hasID {
				if existing, ok := out["@id"].(string); ok {
					id = existing
					hasID = true
				}
			}
			if !hasID {
				id = fmt.Sprintf("%s%d", skolemPrefix, counter)
				counter++
				out["id"] = id
			}
			pathToID[pointer] = id

			// Visit members in sorted order so the synthetic numbering is
			// the same every time the same document is skolemized.
			memberKeys := make([]string, 0, len(v))
			for k := range v {
				memberKeys = append(memberKeys, k)
			}
			sort.Strings(memberKeys)
			for _, k := range memberKeys {
				if k == "id" || k == "@id" {
					continue
				}
				out[k] = walk(v[k], pointer+"/"+escapePointerSegment(k), false)
			}
			return out

		case []interface{}:
			out := make([]interface{}, len(v))
			for i, item := range v {
				out[i] = walk(item, fmt.Sprintf("%s/%d", pointer, i), false)
			}
			return out

		default:
			return v
		}
	}

	rewritten := walk(doc, "", true).(map[string]interface{})
	rootID := pathToID[""]
	return rewritten, rootID, pathToID
}

// escapePointerSegment applies RFC 6901 escaping to one path segment.
func escapePointerSegment(seg string) string {
	seg = strings.ReplaceAll(seg, "~", "~0")
	seg = strings.ReplaceAll(seg, "/", "~1")
	return seg
}

// deskolemizeQuads rewrites every "<urn:bnid:N>" term back into the
// blank-node form "_:c14nN", matching spec.md's compressLabelMap key shape
// ("c14nNNN") so the label map produced later needs no further translation.
func deskolemizeQuads(quads []Quad) []Quad {
	out := make([]Quad, len(quads))
	for i, q := range quads {
		out[i] = Quad{
			Subject:   deskolemizeTerm(q.Subject),
			Predicate: q.Predicate,
			Object:    deskolemizeTerm(q.Object),
			Graph:     deskolemizeTerm(q.Graph),
		}
	}
	return out
}

func deskolemizeTerm(term string) string {
	if term == "" {
		return term
	}
	iri := strings.TrimSuffix(strings.TrimPrefix(term, "<"), ">")
	if !strings.HasPrefix(iri, skolemPrefix) {
		return term
	}
	n := strings.TrimPrefix(iri, skolemPrefix)
	if _, err := strconv.Atoi(n); err != nil {
		return term
	}
	return "_:c14n" + n
}

// skolemTermForID returns the N-Quads subject/object token ("<urn:bnid:N>"
// or "<id>") for a node identifier as recorded by skolemize.
func skolemTermForID(id string) string {
	return "<" + id + ">"
}

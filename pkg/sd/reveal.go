package sd

import (
	"strconv"
	"strings"
)

// buildReveal prunes doc down to exactly the paths named by pointers (plus
// each ancestor needed to reach them), producing the document a holder
// discloses to a verifier. Any object along a kept path that was
// skolemized during canonicalizeAndGroup has its synthetic "id" written
// back in explicitly, so the verifier's own canonicalization of the reveal
// document assigns it the identical "urn:bnid:N" term and therefore the
// identical "_:c14nN" label once deskolemized — this is what lets
// label-replacement canonicalization on the reveal document alone
// reproduce the exact statements the holder selected.
func buildReveal(doc map[string]interface{}, pointers []string, pathToSkolemID map[string]string) map[string]interface{} {
	kept := make(map[string]bool)
	for _, ptr := range pointers {
		for _, ancestor := range ancestorsOf(ptr) {
			kept[ancestor] = true
		}
	}
	kept[""] = true

	var prune func(node interface{}, pointer string) interface{}
	prune = func(node interface{}, pointer string) interface{} {
		switch v := node.(type) {
		case map[string]interface{}:
			out := make(map[string]interface{})
			for _, scaffold := range []string{"@context", "context", "type", "id", "@id"} {
				if val, ok := v[scaffold]; ok {
					out[scaffold] = val
				}
			}
			if id, ok := pathToSkolemID[pointer]; ok && strings.HasPrefix(id, skolemPrefix) {
				out["id"] = id
			}
			for k, val := range v {
				if k == "@context" || k == "context" || k == "type" || k == "id" || k == "@id" {
					continue
				}
				childPointer := pointer + "/" + escapePointerSegment(k)
				if !kept[childPointer] {
					continue
				}
				out[k] = prune(val, childPointer)
			}
			return out

		case []interface{}:
			out := make([]interface{}, 0, len(v))
			for i, item := range v {
				childPointer := pointer + "/" + strconv.Itoa(i)
				if !kept[childPointer] && !isAncestorPrefix(childPointer, kept) {
					continue
				}
				out = append(out, prune(item, childPointer))
			}
			return out

		default:
			return v
		}
	}

	return prune(doc, "").(map[string]interface{})
}

// ancestorsOf returns every prefix pointer of ptr, including ptr itself and
// the root ("").
func ancestorsOf(ptr string) []string {
	if ptr == "" {
		return []string{""}
	}
	segments := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	out := make([]string, 0, len(segments)+1)
	cur := ""
	out = append(out, cur)
	for _, seg := range segments {
		cur += "/" + seg
		out = append(out, cur)
	}
	return out
}

// isAncestorPrefix reports whether pointer is a strict prefix of some kept
// pointer, meaning an array element must be retained to reach a deeper
// disclosed path even though the element itself was not directly named.
func isAncestorPrefix(pointer string, kept map[string]bool) bool {
	prefix := pointer + "/"
	for k := range kept {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

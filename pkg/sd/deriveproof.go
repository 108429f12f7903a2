package sd

import (
	"fmt"

	"github.com/herculas/vc-suite-ecdsa/pkg/canon"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// DeriveProof implements spec.md §4.5.2: the holder side of the
// selective-disclosure suite. securedDoc must carry a base ecdsa-sd-2023
// proof; selectivePointers names the additional, holder-chosen properties
// to disclose beyond the mandatory set the issuer already fixed.
func DeriveProof(rdfc *canon.RDFC, securedDoc map[string]interface{}, selectivePointers []string, c curve.Curve) (map[string]interface{}, error) {
	proofNode, err := extractSDProof(securedDoc)
	if err != nil {
		return nil, err
	}
	proofValue, _ := proofNode["proofValue"].(string)
	base, err := decodeBaseProofValue(proofValue)
	if err != nil {
		return nil, err
	}

	labelFn, err := NewHMACLabelFunc(base.HMACKey, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	docWithoutProof := make(map[string]interface{}, len(securedDoc))
	for k, v := range securedDoc {
		if k == "proof" {
			continue
		}
		docWithoutProof[k] = v
	}

	combinedPointers := append(append([]string{}, base.MandatoryPointers...), selectivePointers...)
	grouped, err := canonicalizeAndGroup(rdfc, docWithoutProof, Groups{
		"mandatory": base.MandatoryPointers,
		"selective": selectivePointers,
		"combined":  combinedPointers,
	}, labelFn)
	if err != nil {
		return nil, err
	}

	mandatoryMatching := grouped.Groups["mandatory"].Matching
	selectiveMatching := grouped.Groups["selective"].Matching
	combinedIndexes := orderedIndexes(grouped.Groups["combined"].Matching)

	mandatoryIndexes := make([]int, 0, len(mandatoryMatching))
	for relative, abs := range combinedIndexes {
		if _, ok := mandatoryMatching[abs]; ok {
			mandatoryIndexes = append(mandatoryIndexes, relative)
		}
	}

	nonMandatoryFull := grouped.NonMatching("mandatory")
	nonMandatoryOrder := orderedIndexes(nonMandatoryFull)
	if len(nonMandatoryOrder) != len(base.Signatures) {
		return nil, fmt.Errorf("%w: base proof has %d signatures, expected %d non-mandatory statements", ErrInvalidBaseProof, len(base.Signatures), len(nonMandatoryOrder))
	}
	var filteredSignatures [][]byte
	for i, abs := range nonMandatoryOrder {
		if _, ok := selectiveMatching[abs]; ok {
			filteredSignatures = append(filteredSignatures, base.Signatures[i])
		}
	}

	appearing := make(map[string]bool)
	for _, idx := range combinedIndexes {
		q := grouped.Quads[idx]
		markLabel(q.Subject, appearing)
		markLabel(q.Object, appearing)
		markLabel(q.Graph, appearing)
	}
	verifierLabelMap := make(map[string]string, len(appearing))
	for label := range appearing {
		if hmacLabel, ok := grouped.LabelMap[label]; ok {
			verifierLabelMap[label] = hmacLabel
		}
	}
	compressed, err := compressLabelMap(verifierLabelMap)
	if err != nil {
		return nil, err
	}

	reveal := buildReveal(docWithoutProof, combinedPointers, grouped.PathToSkolemID)

	derivedProofValue, err := encodeDerivedProofValue(derivedProofValue{
		BaseSignature:    base.BaseSignature,
		PublicKey:        base.PublicKey,
		Signatures:       filteredSignatures,
		CompressedLabels: compressed,
		MandatoryIndexes: mandatoryIndexes,
	})
	if err != nil {
		return nil, err
	}

	derivedProofConfig := cloneMapSD(proofNode)
	delete(derivedProofConfig, "proofValue")
	derivedProofConfig["proofValue"] = derivedProofValue

	reveal["proof"] = derivedProofConfig
	return reveal, nil
}

// markLabel records term's blank-node label (stripped of "_:") in seen, if
// term is a blank node.
func markLabel(term string, seen map[string]bool) {
	if IsBlankNode(term) {
		seen[BlankNodeLabel(term)] = true
	}
}

func cloneMapSD(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// extractSDProof locates the ecdsa-sd-2023 proof node within doc's "proof"
// member (object or array form).
func extractSDProof(doc map[string]interface{}) (map[string]interface{}, error) {
	raw, ok := doc["proof"]
	if !ok {
		return nil, fmt.Errorf("%w: document has no proof", ErrInvalidBaseProof)
	}
	check := func(m map[string]interface{}) bool {
		cs, _ := m["cryptosuite"].(string)
		return cs == Cryptosuite
	}
	switch v := raw.(type) {
	case map[string]interface{}:
		if !check(v) {
			return nil, fmt.Errorf("%w: proof cryptosuite is not %s", ErrInvalidBaseProof, Cryptosuite)
		}
		return v, nil
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok && check(m) {
				return m, nil
			}
		}
		return nil, fmt.Errorf("%w: no proof matches %s", ErrInvalidBaseProof, Cryptosuite)
	default:
		return nil, fmt.Errorf("%w: unexpected proof member type %T", ErrInvalidBaseProof, raw)
	}
}

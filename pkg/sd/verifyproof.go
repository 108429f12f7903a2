package sd

import (
	"fmt"
	"time"

	"github.com/herculas/vc-suite-ecdsa/pkg/canon"
	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
	"github.com/herculas/vc-suite-ecdsa/pkg/digest"
	"github.com/herculas/vc-suite-ecdsa/pkg/suite"
)

// VerifyDerivedProof implements spec.md §4.5.3. revealDoc is what a holder
// produced via DeriveProof; resolve locates the issuer's verification
// method to check the base signature.
func VerifyDerivedProof(rdfc *canon.RDFC, revealDoc map[string]interface{}, resolve suite.VerificationMethodResolver) (suite.VerifyResult, error) {
	proofNode, err := extractSDProof(revealDoc)
	if err != nil {
		return suite.VerifyResult{}, err
	}
	if created, ok := proofNode["created"].(string); ok {
		if _, err := time.Parse(time.RFC3339, created); err != nil {
			return suite.VerifyResult{}, fmt.Errorf("%w: invalid created %q: %v", ErrProofGeneration, created, err)
		}
	}
	proofValue, _ := proofNode["proofValue"].(string)
	derived, err := decodeDerivedProofValue(proofValue)
	if err != nil {
		return suite.VerifyResult{}, err
	}

	vmID, _ := proofNode["verificationMethod"].(string)
	kp, err := resolve(vmID)
	if err != nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}
	if kp == nil || kp.PublicKey == nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: resolved verification method has no public key", ErrProofVerification)
	}

	docWithoutProof := cloneMapSD(revealDoc)
	delete(docWithoutProof, "proof")

	labelMap := decompressLabelMap(derived.CompressedLabels)
	replaceFn := func(label string) string {
		if hmacLabel, ok := labelMap[label]; ok {
			return hmacLabel
		}
		return label
	}

	skolemized, _, _ := skolemize(docWithoutProof)
	canonical, err := rdfc.Canonicalize(skolemized)
	if err != nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: canonicalizing reveal document: %v", ErrProofVerification, err)
	}
	quads, err := ParseNQuads(string(canonical))
	if err != nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}
	deskolemized := deskolemizeQuads(quads)
	relabeled, _ := RelabelQuads(deskolemized, replaceFn)

	mandatorySet := make(map[int]bool, len(derived.MandatoryIndexes))
	for _, idx := range derived.MandatoryIndexes {
		mandatorySet[idx] = true
	}
	var mandatoryLines, nonMandatoryLines []string
	for i, q := range relabeled {
		if mandatorySet[i] {
			mandatoryLines = append(mandatoryLines, q.String())
		} else {
			nonMandatoryLines = append(nonMandatoryLines, q.String())
		}
	}

	if len(derived.Signatures) != len(nonMandatoryLines) {
		return suite.VerifyResult{}, fmt.Errorf("%w: %d signatures, expected %d non-mandatory statements", ErrProofVerification, len(derived.Signatures), len(nonMandatoryLines))
	}

	mandatoryHash, err := hashMandatoryNQuads(mandatoryLines, kp.Curve)
	if err != nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}

	proofConfig := cloneMapSD(proofNode)
	delete(proofConfig, "proofValue")
	if docContext, ok := revealDoc["@context"]; ok {
		proofConfig["@context"] = docContext
	}
	canonicalProofConfig, err := rdfc.Canonicalize(proofConfig)
	if err != nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}
	proofHash, err := digest.Digest(kp.Curve, canonicalProofConfig)
	if err != nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}

	toVerify := codec.Concatenate(proofHash, derived.PublicKey, mandatoryHash)
	baseOK := verifyIssuer(kp, toVerify, derived.BaseSignature)

	psk, err := pskFromMaterial(derived.PublicKey)
	if err != nil {
		return suite.VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}
	statementsOK := true
	for i, line := range nonMandatoryLines {
		if !verifyP256(psk, []byte(line), derived.Signatures[i]) {
			statementsOK = false
			break
		}
	}

	verified := baseOK && statementsOK
	result := suite.VerifyResult{Verified: verified}
	if verified {
		result.Document = docWithoutProof
	}
	return result, nil
}

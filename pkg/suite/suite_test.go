package suite

import (
	"bytes"
	"testing"

	"github.com/herculas/vc-suite-ecdsa/pkg/canon"
	"github.com/herculas/vc-suite-ecdsa/pkg/digest"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

func newIssuer(t *testing.T, c curve.Curve) *keys.ECKeypair {
	t.Helper()
	kp, err := keys.New(c, "https://example.com/issuer")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := kp.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return kp
}

func TestJCSSignVerifyRoundTrip(t *testing.T) {
	for _, c := range []curve.Curve{curve.P256, curve.P384} {
		issuer := newIssuer(t, c)
		s := NewJCS2019()

		doc := map[string]interface{}{
			"@context": []interface{}{
				"https://www.w3.org/ns/credentials/v2",
			},
			"type":              []interface{}{"VerifiableCredential"},
			"issuer":            issuer.Controller,
			"credentialSubject": map[string]interface{}{"id": "did:example:subject"},
		}

		secured, err := s.CreateProof(doc, ProofOptions{
			VerificationMethod: issuer.ID,
			ProofPurpose:       "assertionMethod",
		}, issuer)
		if err != nil {
			t.Fatalf("[%s] CreateProof: %v", c, err)
		}

		proof, ok := secured["proof"].(map[string]interface{})
		if !ok {
			t.Fatalf("[%s] expected proof object", c)
		}
		if proof["cryptosuite"] != CryptosuiteJCS2019 {
			t.Errorf("[%s] unexpected cryptosuite: %v", c, proof["cryptosuite"])
		}

		resolver := func(id string) (*keys.ECKeypair, error) {
			return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
		}

		result, err := s.VerifyProof(secured, resolver)
		if err != nil {
			t.Fatalf("[%s] VerifyProof: %v", c, err)
		}
		if !result.Verified {
			t.Errorf("[%s] expected verified = true", c)
		}
		if _, hasProof := result.Document["proof"]; hasProof {
			t.Errorf("[%s] expected verified document to have proof stripped", c)
		}
	}
}

func TestJCSVerifyRejectsTamperedProofValue(t *testing.T) {
	issuer := newIssuer(t, curve.P256)
	s := NewJCS2019()

	doc := map[string]interface{}{
		"@context":          []interface{}{"https://www.w3.org/ns/credentials/v2"},
		"type":              []interface{}{"VerifiableCredential"},
		"credentialSubject": map[string]interface{}{"id": "did:example:subject"},
	}
	secured, err := s.CreateProof(doc, ProofOptions{
		VerificationMethod: issuer.ID,
		ProofPurpose:       "assertionMethod",
	}, issuer)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}

	proof := secured["proof"].(map[string]interface{})
	pv := proof["proofValue"].(string)
	proof["proofValue"] = pv[:len(pv)-1] + "1"

	resolver := func(id string) (*keys.ECKeypair, error) {
		return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
	}
	result, err := s.VerifyProof(secured, resolver)
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if result.Verified {
		t.Errorf("expected tampered proofValue to fail verification")
	}
}

// rdfcDoc returns an inline-context credential that canonicalizes without
// any network or embedded-context lookup, the way pkg/canon's own RDFC
// tests do.
func rdfcDoc(issuer string) map[string]interface{} {
	return map[string]interface{}{
		"@context": map[string]interface{}{"@vocab": "https://example.com/vocab#"},
		"@id":      "https://example.com/credentials/1",
		"type":     []interface{}{"VerifiableCredential"},
		"issuer":   issuer,
		"credentialSubject": map[string]interface{}{
			"@id":  "did:example:subject",
			"name": "Alice",
		},
	}
}

func TestRDFCSignVerifyRoundTrip(t *testing.T) {
	for _, c := range []curve.Curve{curve.P256, curve.P384} {
		issuer := newIssuer(t, c)
		s := NewRDFC2019(canon.NewRDFC(nil))

		doc := rdfcDoc(issuer.Controller)
		secured, err := s.CreateProof(doc, ProofOptions{
			VerificationMethod: issuer.ID,
			ProofPurpose:       "assertionMethod",
		}, issuer)
		if err != nil {
			t.Fatalf("[%s] CreateProof: %v", c, err)
		}

		proof, ok := secured["proof"].(map[string]interface{})
		if !ok {
			t.Fatalf("[%s] expected proof object", c)
		}
		if proof["cryptosuite"] != CryptosuiteRDFC2019 {
			t.Errorf("[%s] unexpected cryptosuite: %v", c, proof["cryptosuite"])
		}

		resolver := func(id string) (*keys.ECKeypair, error) {
			return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
		}

		result, err := s.VerifyProof(secured, resolver)
		if err != nil {
			t.Fatalf("[%s] VerifyProof: %v", c, err)
		}
		if !result.Verified {
			t.Errorf("[%s] expected verified = true", c)
		}
		if _, hasProof := result.Document["proof"]; hasProof {
			t.Errorf("[%s] expected verified document to have proof stripped", c)
		}
	}
}

func TestRDFCVerifyRejectsTamperedProofValue(t *testing.T) {
	issuer := newIssuer(t, curve.P256)
	s := NewRDFC2019(canon.NewRDFC(nil))

	doc := rdfcDoc(issuer.Controller)
	secured, err := s.CreateProof(doc, ProofOptions{
		VerificationMethod: issuer.ID,
		ProofPurpose:       "assertionMethod",
	}, issuer)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}

	proof := secured["proof"].(map[string]interface{})
	pv := proof["proofValue"].(string)
	proof["proofValue"] = pv[:len(pv)-1] + "1"

	resolver := func(id string) (*keys.ECKeypair, error) {
		return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
	}
	result, err := s.VerifyProof(secured, resolver)
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if result.Verified {
		t.Errorf("expected tampered proofValue to fail verification")
	}
}

func TestRDFCVerifyRejectsTamperedDocument(t *testing.T) {
	issuer := newIssuer(t, curve.P256)
	s := NewRDFC2019(canon.NewRDFC(nil))

	doc := rdfcDoc(issuer.Controller)
	secured, err := s.CreateProof(doc, ProofOptions{
		VerificationMethod: issuer.ID,
		ProofPurpose:       "assertionMethod",
	}, issuer)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}

	subject := secured["credentialSubject"].(map[string]interface{})
	subject["name"] = "Mallory"

	resolver := func(id string) (*keys.ECKeypair, error) {
		return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
	}
	result, err := s.VerifyProof(secured, resolver)
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	if result.Verified {
		t.Errorf("expected tampered document to fail verification")
	}
}

// TestHashDataIsProofHashConcatDocumentHash pins property #6/#7's hashData
// formation (hashData = proofHash || documentHash, each an independent
// digest.Digest of the canonicalized proof config and document) for both
// mandatory cryptosuites, so a canonicalization or digest regression that
// happens to stay internally self-consistent — the way the multicodec
// double-varint bug stayed self-consistent across encode/decode — still
// shows up as a structural mismatch here instead of hiding behind a
// round-trip pass.
func TestHashDataIsProofHashConcatDocumentHash(t *testing.T) {
	suites := []*Suite{NewJCS2019(), NewRDFC2019(canon.NewRDFC(nil))}
	for _, s := range suites {
		for _, c := range []curve.Curve{curve.P256, curve.P384} {
			var canonicalProofConfig []byte
			var transformedDocument []byte
			var err error
			if s.Cryptosuite == CryptosuiteRDFC2019 {
				canonicalProofConfig, err = s.canonicalizer.Canonicalize(map[string]interface{}{
					"@context":    map[string]interface{}{"@vocab": "https://example.com/vocab#"},
					"type":        "DataIntegrityProof",
					"cryptosuite": s.Cryptosuite,
				})
			} else {
				canonicalProofConfig, err = s.canonicalizer.Canonicalize(map[string]interface{}{
					"type":        "DataIntegrityProof",
					"cryptosuite": s.Cryptosuite,
				})
			}
			if err != nil {
				t.Fatalf("[%s/%s] canonicalize proof config: %v", s.Cryptosuite, c, err)
			}
			transformedDocument, err = s.canonicalizer.Canonicalize(rdfcDoc("https://example.com/issuers/1"))
			if err != nil {
				t.Fatalf("[%s/%s] canonicalize document: %v", s.Cryptosuite, c, err)
			}

			hashData, err := s.hash(c, canonicalProofConfig, transformedDocument)
			if err != nil {
				t.Fatalf("[%s/%s] hash: %v", s.Cryptosuite, c, err)
			}

			proofHash, err := digest.Digest(c, canonicalProofConfig)
			if err != nil {
				t.Fatalf("[%s/%s] digest proof config: %v", s.Cryptosuite, c, err)
			}
			docHash, err := digest.Digest(c, transformedDocument)
			if err != nil {
				t.Fatalf("[%s/%s] digest document: %v", s.Cryptosuite, c, err)
			}

			want := append(append([]byte{}, proofHash...), docHash...)
			if !bytes.Equal(hashData, want) {
				t.Errorf("[%s/%s] hashData = % x, want proofHash||documentHash = % x", s.Cryptosuite, c, hashData, want)
			}
			if len(proofHash) != len(docHash) {
				t.Errorf("[%s/%s] proofHash length %d != documentHash length %d", s.Cryptosuite, c, len(proofHash), len(docHash))
			}
		}
	}
}

func TestVerifyProofRejectsWrongCryptosuite(t *testing.T) {
	s := NewJCS2019()
	doc := map[string]interface{}{
		"proof": map[string]interface{}{
			"type":        ProofType,
			"cryptosuite": CryptosuiteRDFC2019,
			"proofValue":  "zabc",
		},
	}
	_, err := s.VerifyProof(doc, func(string) (*keys.ECKeypair, error) { return nil, nil })
	if err == nil {
		t.Errorf("expected error for mismatched cryptosuite")
	}
}

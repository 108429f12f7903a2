package sd

import (
	"testing"

	"github.com/herculas/vc-suite-ecdsa/pkg/canon"
	"github.com/herculas/vc-suite-ecdsa/pkg/docloader"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
	"github.com/herculas/vc-suite-ecdsa/pkg/suite"
)

func newSDIssuer(t *testing.T) *keys.ECKeypair {
	t.Helper()
	kp, err := keys.New(curve.P256, "https://issuer.example")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := kp.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return kp
}

func newSDDocument(issuer string) map[string]interface{} {
	return map[string]interface{}{
		"@context": []interface{}{"https://www.w3.org/ns/credentials/v2"},
		"type":     []interface{}{"VerifiableCredential"},
		"issuer":   issuer,
		"credentialSubject": map[string]interface{}{
			"id":   "https://subject.example/1",
			"name": "Alice",
			"degree": map[string]interface{}{
				"type": "BachelorDegree",
				"name": "Computer Science",
			},
		},
	}
}

func TestBaseDeriveVerifyRoundTrip(t *testing.T) {
	issuer := newSDIssuer(t)
	rdfc := canon.NewRDFC(docloader.New())

	doc := newSDDocument(issuer.Controller)
	mandatoryPointers := []string{"/issuer"}
	selectivePointers := []string{"/credentialSubject/name"}

	secured, err := CreateBaseProof(rdfc, doc, suite.ProofOptions{
		VerificationMethod: issuer.ID,
		ProofPurpose:       "assertionMethod",
	}, mandatoryPointers, issuer)
	if err != nil {
		t.Fatalf("CreateBaseProof: %v", err)
	}

	revealed, err := DeriveProof(rdfc, secured, selectivePointers, issuer.Curve)
	if err != nil {
		t.Fatalf("DeriveProof: %v", err)
	}

	subject, ok := revealed["credentialSubject"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected credentialSubject in revealed document")
	}
	if _, hasDegree := subject["degree"]; hasDegree {
		t.Errorf("degree was not disclosed and should not appear in revealed document")
	}
	if subject["name"] != "Alice" {
		t.Errorf("expected selectively disclosed name to survive, got %v", subject["name"])
	}

	resolver := func(id string) (*keys.ECKeypair, error) {
		return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
	}
	result, err := VerifyDerivedProof(rdfc, revealed, resolver)
	if err != nil {
		t.Fatalf("VerifyDerivedProof: %v", err)
	}
	if !result.Verified {
		t.Fatalf("expected derived proof to verify")
	}
	if _, hasProof := result.Document["proof"]; hasProof {
		t.Errorf("expected verified document to have proof stripped")
	}
}

func TestVerifyDerivedProofRejectsTamperedStatement(t *testing.T) {
	issuer := newSDIssuer(t)
	rdfc := canon.NewRDFC(docloader.New())

	doc := newSDDocument(issuer.Controller)
	secured, err := CreateBaseProof(rdfc, doc, suite.ProofOptions{
		VerificationMethod: issuer.ID,
		ProofPurpose:       "assertionMethod",
	}, []string{"/issuer"}, issuer)
	if err != nil {
		t.Fatalf("CreateBaseProof: %v", err)
	}

	revealed, err := DeriveProof(rdfc, secured, []string{"/credentialSubject/name"}, issuer.Curve)
	if err != nil {
		t.Fatalf("DeriveProof: %v", err)
	}

	subject := revealed["credentialSubject"].(map[string]interface{})
	subject["name"] = "Mallory"

	resolver := func(id string) (*keys.ECKeypair, error) {
		return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
	}
	result, err := VerifyDerivedProof(rdfc, revealed, resolver)
	if err != nil {
		t.Fatalf("VerifyDerivedProof: %v", err)
	}
	if result.Verified {
		t.Errorf("expected tampered statement to fail verification")
	}
}

func TestVerifyDerivedProofRejectsTamperedProofValue(t *testing.T) {
	issuer := newSDIssuer(t)
	rdfc := canon.NewRDFC(docloader.New())

	doc := newSDDocument(issuer.Controller)
	secured, err := CreateBaseProof(rdfc, doc, suite.ProofOptions{
		VerificationMethod: issuer.ID,
		ProofPurpose:       "assertionMethod",
	}, []string{"/issuer"}, issuer)
	if err != nil {
		t.Fatalf("CreateBaseProof: %v", err)
	}

	revealed, err := DeriveProof(rdfc, secured, nil, issuer.Curve)
	if err != nil {
		t.Fatalf("DeriveProof: %v", err)
	}

	proof := revealed["proof"].(map[string]interface{})
	pv := proof["proofValue"].(string)
	proof["proofValue"] = pv[:len(pv)-1] + "1"

	resolver := func(id string) (*keys.ECKeypair, error) {
		return &keys.ECKeypair{Curve: issuer.Curve, PublicKey: issuer.PublicKey}, nil
	}
	result, err := VerifyDerivedProof(rdfc, revealed, resolver)
	if err != nil {
		t.Fatalf("VerifyDerivedProof: %v", err)
	}
	if result.Verified {
		t.Errorf("expected tampered proofValue to fail verification")
	}
}

package codec

// DER/SPKI prefix tables for P-256 and P-384, in compressed and uncompressed
// point form, per spec.md §3. These are the fixed ASN.1 envelopes that wrap
// an EC public key exported in SPKI (SubjectPublicKeyInfo) form; key-layer
// code strips them off to recover the raw point and re-attaches them on
// import. They are declared here, not derived at runtime, because they are
// fixed for a given (curve, flag, compression) tuple — exactly the kind of
// compile-time constant spec.md §9 calls out as the only process-wide state.
var (
	// SPKIPrefixUncompressedP256 is the ASN.1 SPKI header, ending in the
	// 0x04 uncompressed-point marker, that precedes the X || Y coordinates
	// of a P-256 point.
	SPKIPrefixUncompressedP256 = mustHex("3059301306072a8648ce3d020106082a8648ce3d03010703420004")
	// SPKIPrefixUncompressedP384 is the same header for a P-384 point.
	SPKIPrefixUncompressedP384 = mustHex("3076301006072a8648ce3d020106052b8104002203620004")

	// PKCS8PrefixUncompressedP256 is the ASN.1 PKCS#8 header preceding a
	// P-256 private scalar, before the uncompressed-public-key trailer.
	PKCS8PrefixUncompressedP256 = mustHex("308187020100301306072a8648ce3d020106082a8648ce3d030107046d306b0201010420")
	// PKCS8PrefixUncompressedP384 precedes a P-384 private scalar.
	PKCS8PrefixUncompressedP384 = mustHex("3081b6020100301006072a8648ce3d020106052b8104002204819e30819b0201010430")

	// PKCS8FooterLen is the number of ASN.1 envelope bytes between the
	// private scalar payload and the trailing `[1] BIT STRING` that carries
	// the uncompressed public point, per spec.md §3.
	PKCS8FooterLen = 6
)

func mustHex(s string) []byte {
	b, err := HexToBytes(s)
	if err != nil {
		panic(err)
	}
	return b
}

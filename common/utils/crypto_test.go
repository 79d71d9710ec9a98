package utils

import (
	"testing"
)

func TestSignAndRecover(t *testing.T) {
	hexKey := "7bbfec284ee43e328438d46ec803863c8e1367ab46072f7864c07e0a03ba61fd"
	key, err := HexToECDSA(hexKey)
	if err != nil {
		t.Fatal(err)
	}
	addr := PubkeyToAddress(key.PubKey())

	msg := "0xc0ffee11000000000000"
	sig, err := SignMsg(msg, key)
	if err != nil {
		t.Fatal(err)
	}
	recovered, err := RecoverAddress(msg, sig)
	if err != nil {
		t.Fatal(err)
	}
	if recovered != addr {
		t.Fatalf("recovered %v, want %v", recovered, addr)
	}

	// a different message does not recover the signer
	recovered, err = RecoverAddress(msg+"tampered", sig)
	if err == nil && recovered == addr {
		t.Fatal("tampered message recovered the signer")
	}
}

func TestRecoverAddressRejectsBadSig(t *testing.T) {
	if _, err := RecoverAddress("msg", "0x1234"); err == nil {
		t.Fatal("short signature accepted")
	}
}

func TestParsePage(t *testing.T) {
	page, size, err := ParsePage(nil, nil)
	if err != nil || page != 1 || size != 10 {
		t.Fatalf("defaults = %v %v %v", page, size, err)
	}
	bad := 0
	if _, _, err = ParsePage(&bad, nil); err == nil {
		t.Fatal("page 0 accepted")
	}
	big := 1000
	if _, _, err = ParsePage(nil, &big); err == nil {
		t.Fatal("oversized page_size accepted")
	}
}

package validate

import (
	"strings"
	"testing"
)

func TestFingerprintStable(t *testing.T) {
	key := "sk-" + strings.Repeat("a", 48)
	fp := Fingerprint(key)
	for i := 0; i < 10; i++ {
		if Fingerprint(key) != fp {
			t.Fatal("fingerprint not deterministic")
		}
	}
	if Fingerprint("sk-"+strings.Repeat("b", 48)) == fp {
		t.Fatal("distinct keys collided")
	}
}

func TestFingerprintNeverContainsKeyBody(t *testing.T) {
	key := "sk-" + strings.Repeat("a", 20) + "SECRETMIDDLE" + strings.Repeat("a", 16)
	fp := Fingerprint(key)
	if strings.Contains(fp, "SECRETMIDDLE") {
		t.Fatalf("fingerprint leaks key body: %s", fp)
	}
	if !strings.HasPrefix(fp, "sk-a***") {
		t.Fatalf("fingerprint missing hint prefix: %s", fp)
	}
}

func TestFingerprintShortKeyFullyMasked(t *testing.T) {
	fp := Fingerprint("sk-abc")
	if !strings.HasPrefix(fp, "********_") {
		t.Fatalf("short key not fully masked: %s", fp)
	}
}

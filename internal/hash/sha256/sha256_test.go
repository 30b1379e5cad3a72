package sha256

import "testing"

func TestHash(t *testing.T) {
	h := New()

	digest, err := h.Hash([]byte("hello"))
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if digest != want {
		t.Fatalf("Hash(\"hello\") = %s, want %s", digest, want)
	}

	again, err := h.Hash([]byte("hello"))
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if again != digest {
		t.Fatalf("Hash is not deterministic: %s != %s", again, digest)
	}

	other, err := h.Hash([]byte("hello "))
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if other == digest {
		t.Fatalf("different inputs produced the same digest")
	}
}

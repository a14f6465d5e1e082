package mac

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// RFC 2202 test cases for HMAC-SHA-1. Case 7 uses the digest corrected by
// the RFC 2202 erratum.
func TestSumRFC2202Vectors(t *testing.T) {
	t.Parallel()
	m := NewSHA1()

	tests := []struct {
		name   string
		key    []byte
		data   []byte
		digest string
	}{
		{
			name:   "key_len_20",
			key:    bytes.Repeat([]byte{0x0b}, 20),
			data:   []byte("Hi There"),
			digest: "b617318655057264e28bc0b6fb378c8ef146be00",
		},
		{
			name:   "short_key",
			key:    []byte("Jefe"),
			data:   []byte("what do ya want for nothing?"),
			digest: "effcdf6ae5eb2fa2d27416d5f184df9c259a7c79",
		},
		{
			name:   "binary_data",
			key:    bytes.Repeat([]byte{0xaa}, 20),
			data:   bytes.Repeat([]byte{0xdd}, 50),
			digest: "125d7342b9ac11cd91a39af48aa17b4f63f175d3",
		},
		{
			name:   "key_len_25",
			key:    mustHex("0102030405060708090a0b0c0d0e0f10111213141516171819"),
			data:   bytes.Repeat([]byte{0xcd}, 50),
			digest: "4c9007f4026250c6bc8414f9bf50c86c2d7235da",
		},
		{
			name:   "truncation_case",
			key:    bytes.Repeat([]byte{0x0c}, 20),
			data:   []byte("Test With Truncation"),
			digest: "4c1a03424b55e07fe7f27be1d58bb9324a9a5a04",
		},
		{
			name:   "key_longer_than_block",
			key:    bytes.Repeat([]byte{0xaa}, 80),
			data:   []byte("Test Using Larger Than Block-Size Key - Hash Key First"),
			digest: "aa4ae5e15272d00e95705637ce8a3b55ed402112",
		},
		{
			name: "key_and_data_longer_than_block",
			key:  bytes.Repeat([]byte{0xaa}, 80),
			data: []byte("Test Using Larger Than Block-Size Key and Larger" +
				" Than One Block-Size Data"),
			digest: "e8e99d0f45237d786d6bbaa7965c7808bbff1a91",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Sum(tt.key, tt.data)
			want := fromHex(t, tt.digest)
			if !bytes.Equal(got, want) {
				t.Errorf("Sum() = %x, want %s", got, tt.digest)
			}
		})
	}
}

func mustHex(s string) []byte {
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

func TestSumDeterministic(t *testing.T) {
	t.Parallel()
	m := NewSHA1()
	key := []byte("shared key")
	msg := []byte("payload")

	a := m.Sum(key, msg)
	b := m.Sum(key, msg)
	if !bytes.Equal(a, b) {
		t.Error("Sum() is not deterministic")
	}
	if len(a) != m.Size() {
		t.Errorf("digest length = %d, want %d", len(a), m.Size())
	}
}

func TestSumBlockSizedKey(t *testing.T) {
	t.Parallel()
	m := New(sha1.New, 64)
	key := bytes.Repeat([]byte{0x42}, 64)

	// A block-sized key must be used as-is: padding it further or hashing
	// it would produce a different digest.
	got := m.Sum(key, []byte("msg"))
	if len(got) != 20 {
		t.Fatalf("digest length = %d, want 20", len(got))
	}
	if bytes.Equal(got, m.Sum(key[:63], []byte("msg"))) {
		t.Error("block-sized key and truncated key produced the same digest")
	}
}

package main

import (
	"encoding/base64"
	"testing"
)

func TestGenerateKnownTypes(t *testing.T) {
	for _, which := range []string{"uid", "token", "all"} {
		if code := generate(which); code != 0 {
			t.Errorf("generate(%q) returned %d, want 0", which, code)
		}
	}
}

func TestGenerateUnknownType(t *testing.T) {
	if code := generate("bogus"); code != 1 {
		t.Errorf("generate(\"bogus\") returned %d, want 1", code)
	}
}

func TestCheckValidKeys(t *testing.T) {
	for _, size := range []int{uidKeyLength, tokenKeyLength} {
		key := base64.StdEncoding.EncodeToString(make([]byte, size))
		if code := check(key); code != 0 {
			t.Errorf("check of %d-byte key returned %d, want 0", size, code)
		}
	}
}

func TestCheckInvalidKeys(t *testing.T) {
	if code := check("not-base64!"); code != 1 {
		t.Error("malformed base64 accepted")
	}
	short := base64.StdEncoding.EncodeToString(make([]byte, 5))
	if code := check(short); code != 1 {
		t.Error("short key accepted")
	}
}

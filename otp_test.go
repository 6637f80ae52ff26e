package main

import (
	"testing"
	"time"
)

func TestOTPStore_TakeOnceConsumes(t *testing.T) {
	store := newMemOTPStore()
	store.Put("9876543210", "482913", time.Minute)

	code, ok := store.TakeOnce("9876543210")
	if !ok || code != "482913" {
		t.Fatalf("expected stored code back, got %q %v", code, ok)
	}

	if _, ok := store.TakeOnce("9876543210"); ok {
		t.Error("second take must fail; codes are single-use")
	}
}

func TestOTPStore_MissingKey(t *testing.T) {
	store := newMemOTPStore()
	if _, ok := store.TakeOnce("0000000000"); ok {
		t.Error("expected miss for a key that was never stored")
	}
}

func TestOTPStore_Expired(t *testing.T) {
	store := newMemOTPStore()
	store.Put("9876543210", "482913", -time.Second)

	if _, ok := store.TakeOnce("9876543210"); ok {
		t.Error("expected expired code to be rejected")
	}
	// and the expired entry is gone, not resurrectable
	if _, ok := store.TakeOnce("9876543210"); ok {
		t.Error("expired entry should have been removed")
	}
}

func TestOTPStore_OverwriteReplacesCode(t *testing.T) {
	store := newMemOTPStore()
	store.Put("9876543210", "111111", time.Minute)
	store.Put("9876543210", "222222", time.Minute)

	code, ok := store.TakeOnce("9876543210")
	if !ok || code != "222222" {
		t.Errorf("expected latest code 222222, got %q %v", code, ok)
	}
}

func TestNewOTPCode_SixDigits(t *testing.T) {
	t.Setenv("OTP_DEV_CODE", "")
	for i := 0; i < 20; i++ {
		code := newOTPCode()
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
	}
}

func TestNewOTPCode_DevOverride(t *testing.T) {
	t.Setenv("OTP_DEV_CODE", "123456")
	if code := newOTPCode(); code != "123456" {
		t.Errorf("expected dev override, got %q", code)
	}
}

func TestNormalizeProfile(t *testing.T) {
	name, email := normalizeProfile("  Asha Rao ", " Asha.Rao@Example.COM ")
	if name != "Asha Rao" {
		t.Errorf("name = %q, want %q", name, "Asha Rao")
	}
	if email != "asha.rao@example.com" {
		t.Errorf("email = %q, want %q", email, "asha.rao@example.com")
	}
}

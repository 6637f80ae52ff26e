package main

import "testing"

func TestExpectedSignature_KnownVector(t *testing.T) {
	// echo -n "order_abc|pay_xyz" | openssl dgst -sha256 -hmac "secret"
	got := expectedSignature("order_abc", "pay_xyz", "secret")
	want := "6c4490ce5c4839b0437f2b5dccb1fc7301518f94c6d1165b96d0903bfd33b2ae"
	if got != want {
		t.Errorf("expectedSignature = %s, want %s", got, want)
	}
}

func TestSignatureValid_RoundTrip(t *testing.T) {
	sig := expectedSignature("order_abc", "pay_xyz", "secret")
	if !signatureValid("order_abc", "pay_xyz", sig, "secret") {
		t.Error("freshly computed signature must validate")
	}
}

func TestSignatureValid_Tampered(t *testing.T) {
	sig := expectedSignature("order_abc", "pay_xyz", "secret")

	cases := []struct {
		name                         string
		orderID, paymentID, provided string
	}{
		{"flipped signature", "order_abc", "pay_xyz", sig[:len(sig)-1] + "0"},
		{"different order id", "order_def", "pay_xyz", sig},
		{"different payment id", "order_abc", "pay_other", sig},
		{"empty signature", "order_abc", "pay_xyz", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if signatureValid(tc.orderID, tc.paymentID, tc.provided, "secret") {
				t.Error("tampered input validated")
			}
		})
	}
}

func TestSignatureValid_WrongSecret(t *testing.T) {
	sig := expectedSignature("order_abc", "pay_xyz", "secret")
	if signatureValid("order_abc", "pay_xyz", sig, "other-secret") {
		t.Error("signature made with another secret validated")
	}
}

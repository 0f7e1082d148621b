package payment

import "testing"

func TestVerifyAcceptsOwnSignature(t *testing.T) {
	v := NewVerifier("secret")
	sig := v.Sign("order_abc", "pay_xyz")
	if !v.Verify("order_abc", "pay_xyz", sig) {
		t.Fatal("expected signature to verify")
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	v := NewVerifier("secret")
	sig := v.Sign("order_abc", "pay_xyz")

	if v.Verify("order_abc", "pay_other", sig) {
		t.Fatal("expected tampered payment ref to fail")
	}
	if v.Verify("order_other", "pay_xyz", sig) {
		t.Fatal("expected tampered order ref to fail")
	}
	if v.Verify("order_abc", "pay_xyz", sig+"00") {
		t.Fatal("expected tampered signature to fail")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	sig := NewVerifier("secret-a").Sign("order_abc", "pay_xyz")
	if NewVerifier("secret-b").Verify("order_abc", "pay_xyz", sig) {
		t.Fatal("expected signature from another secret to fail")
	}
}

func TestInternalOrderID(t *testing.T) {
	po := &ProviderOrder{Notes: map[string]string{"internal_order_id": "o1"}}
	id, ok := po.InternalOrderID()
	if !ok || id != "o1" {
		t.Fatalf("expected o1, got %q ok=%v", id, ok)
	}

	for _, po := range []*ProviderOrder{
		{},
		{Notes: map[string]string{}},
		{Notes: map[string]string{"internal_order_id": ""}},
	} {
		if _, ok := po.InternalOrderID(); ok {
			t.Fatalf("expected missing order id for %+v", po)
		}
	}
}

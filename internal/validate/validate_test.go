package validate_test

import (
	"reflect"
	"testing"

	"tireshop/internal/validate"
)

func TestPrice(t *testing.T) {
	for _, bad := range []string{"0", "-5", "abc", "", "12.50"} {
		if _, ok := validate.Price(bad); ok {
			t.Errorf("Price(%q) should be rejected", bad)
		}
	}
	n, ok := validate.Price(" 4800 ")
	if !ok || n != 4800 {
		t.Fatalf("Price(4800) = %d, %v", n, ok)
	}
}

func TestSpecs(t *testing.T) {
	if got := validate.Specs("-"); got != nil {
		t.Fatalf("skip token should yield no specs, got %v", got)
	}
	got := validate.Specs("a, b ,, c")
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("want [a b c], got %v", got)
	}
}

func TestProductName(t *testing.T) {
	if _, ok := validate.ProductName("   "); ok {
		t.Fatal("blank name should be rejected")
	}
	name, ok := validate.ProductName("  Michelin Latitude ")
	if !ok || name != "Michelin Latitude" {
		t.Fatalf("got %q, %v", name, ok)
	}
}

func TestPaymentMethod(t *testing.T) {
	if got := validate.PaymentMethod("CARD"); got != "card" {
		t.Fatalf("want card, got %q", got)
	}
	if got := validate.PaymentMethod("bitcoin"); got != "cash" {
		t.Fatalf("unknown method should default to cash, got %q", got)
	}
	if got := validate.PaymentMethod(""); got != "cash" {
		t.Fatalf("empty method should default to cash, got %q", got)
	}
}

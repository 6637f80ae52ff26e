package main

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddItem_NewLineUsesRequestedQuantity(t *testing.T) {
	cart := &Cart{}
	pid := primitive.NewObjectID()

	cart.addItem(pid, "M", 3)

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", cart.Items[0].Quantity)
	}
}

func TestAddItem_ZeroQuantityDefaultsToOne(t *testing.T) {
	cart := &Cart{}
	cart.addItem(primitive.NewObjectID(), "S", 0)

	if cart.Items[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", cart.Items[0].Quantity)
	}
}

func TestAddItem_MergeBumpsByOneRegardlessOfRequest(t *testing.T) {
	cart := &Cart{}
	pid := primitive.NewObjectID()

	cart.addItem(pid, "M", 1)
	cart.addItem(pid, "M", 5) // merge path ignores the requested 5

	if len(cart.Items) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 2 {
		t.Errorf("expected quantity 2 after merge, got %d", cart.Items[0].Quantity)
	}
}

func TestAddItem_DifferentSizesStaySeparate(t *testing.T) {
	cart := &Cart{}
	pid := primitive.NewObjectID()

	cart.addItem(pid, "M", 1)
	cart.addItem(pid, "L", 1)

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines for distinct sizes, got %d", len(cart.Items))
	}
}

func TestAdjustQuantity_Delta(t *testing.T) {
	cart := &Cart{}
	pid := primitive.NewObjectID()
	cart.addItem(pid, "M", 2)

	if !cart.adjustQuantity(pid, "M", 3) {
		t.Fatal("expected line to be found")
	}
	if cart.Items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", cart.Items[0].Quantity)
	}
}

func TestAdjustQuantity_DropsLineAtZeroOrBelow(t *testing.T) {
	cases := []struct {
		name  string
		start int
		delta int
	}{
		{"exactly zero", 2, -2},
		{"below zero", 1, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cart := &Cart{}
			pid := primitive.NewObjectID()
			cart.addItem(pid, "M", tc.start)

			if !cart.adjustQuantity(pid, "M", tc.delta) {
				t.Fatal("expected line to be found")
			}
			if len(cart.Items) != 0 {
				t.Errorf("expected line removed, still have %d lines", len(cart.Items))
			}
		})
	}
}

func TestAdjustQuantity_MissingLine(t *testing.T) {
	cart := &Cart{}
	if cart.adjustQuantity(primitive.NewObjectID(), "M", 1) {
		t.Error("expected false for a line that is not in the cart")
	}
}

func TestRemoveItem_OnlyMatchingPairGoes(t *testing.T) {
	cart := &Cart{}
	pid := primitive.NewObjectID()
	other := primitive.NewObjectID()
	cart.addItem(pid, "M", 1)
	cart.addItem(pid, "L", 1)
	cart.addItem(other, "M", 1)

	cart.removeItem(pid, "M")

	if len(cart.Items) != 2 {
		t.Fatalf("expected 2 lines left, got %d", len(cart.Items))
	}
	for _, item := range cart.Items {
		if item.Product == pid && item.Size == "M" {
			t.Error("removed line still present")
		}
	}
}

func TestTotal(t *testing.T) {
	cart := &Cart{}
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	cart.addItem(a, "M", 2)
	cart.addItem(b, "L", 1)

	prices := map[primitive.ObjectID]float64{a: 500, b: 250}

	if got := cart.total(prices); got != 1250 {
		t.Errorf("expected total 1250, got %g", got)
	}
}

func TestDropCouponIfBelowMin(t *testing.T) {
	cart := &Cart{AppliedCoupon: &AppliedCoupon{Code: "SAVE10", MinPurchase: 1000}}

	cart.dropCouponIfBelowMin(1000)
	if cart.AppliedCoupon == nil {
		t.Fatal("coupon dropped although total still meets the minimum")
	}

	cart.dropCouponIfBelowMin(999)
	if cart.AppliedCoupon != nil {
		t.Error("coupon kept although total fell below the minimum")
	}
}

func TestUpdateBelowMinClearsCoupon(t *testing.T) {
	// two items at 500 with a 1000 minimum coupon; dropping one line must
	// null the coupon
	cart := &Cart{AppliedCoupon: &AppliedCoupon{Code: "BIG", MinPurchase: 1000}}
	pid := primitive.NewObjectID()
	cart.addItem(pid, "M", 2)

	prices := map[primitive.ObjectID]float64{pid: 500}
	cart.adjustQuantity(pid, "M", -1)
	cart.dropCouponIfBelowMin(cart.total(prices))

	if cart.AppliedCoupon != nil {
		t.Error("expected coupon cleared once total fell under minPurchase")
	}
}

func TestClear(t *testing.T) {
	cart := &Cart{AppliedCoupon: &AppliedCoupon{Code: "X"}}
	cart.addItem(primitive.NewObjectID(), "M", 1)

	cart.clear()

	if len(cart.Items) != 0 {
		t.Errorf("expected no items, got %d", len(cart.Items))
	}
	if cart.AppliedCoupon != nil {
		t.Error("expected applied coupon cleared")
	}
}

func TestApplySecondCouponOverwrites(t *testing.T) {
	cart := &Cart{}
	first := Coupon{Code: "FIRST", DiscountType: "flat", DiscountValue: 50}
	second := Coupon{Code: "SECOND", DiscountType: "percent", DiscountValue: 10}

	cart.AppliedCoupon = first.snapshot()
	cart.AppliedCoupon = second.snapshot()

	if cart.AppliedCoupon.Code != "SECOND" {
		t.Errorf("expected SECOND applied, got %s", cart.AppliedCoupon.Code)
	}
}

package models

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/global"
)

func testProduct(name string, price float64, stock int) *Product {
	return &Product{
		ID:     bson.NewObjectID(),
		Name:   name,
		Price:  price,
		Stock:  stock,
		Images: []string{"https://cdn.example.com/" + name + ".jpg"},
		Status: ProductStatusActive,
	}
}

func expectedTotal(c *Cart) (float64, int) {
	var total float64
	var count int
	for _, it := range c.Items {
		total += it.Price * float64(it.Quantity)
		count += it.Quantity
	}
	return total, count
}

func TestAddThenReAddKeepsSingleLine(t *testing.T) {
	p1 := testProduct("P1", 100, 10)
	cart := NewCart(bson.NewObjectID())
	now := time.Now()

	if err := cart.AddItem(p1, 2, now); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := cart.AddItem(p1, 3, now); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", cart.Items[0].Quantity)
	}
	if cart.TotalPrice != 300 {
		t.Errorf("total = %v, want 300", cart.TotalPrice)
	}
	if cart.Items[0].Image == "" || cart.Items[0].Name != "P1" {
		t.Errorf("line should snapshot product fields: %+v", cart.Items[0])
	}
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	cart := NewCart(bson.NewObjectID())
	err := cart.AddItem(testProduct("P1", 10, 5), 0, time.Now())
	if !errors.Is(err, global.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatal("cart should be unchanged")
	}
}

func TestSetQuantityNonPositiveRemoves(t *testing.T) {
	for _, qty := range []int{0, -1, -50} {
		p1 := testProduct("P1", 12.5, 10)
		p2 := testProduct("P2", 3.2, 10)
		cart := NewCart(bson.NewObjectID())
		_ = cart.AddItem(p1, 2, time.Now())
		_ = cart.AddItem(p2, 1, time.Now())

		removed := NewCart(cart.UserID)
		removed.Items = append([]CartItem(nil), cart.Items...)
		if err := removed.RemoveItem(p1.ID); err != nil {
			t.Fatalf("RemoveItem: %v", err)
		}

		if err := cart.SetQuantity(p1.ID, qty); err != nil {
			t.Fatalf("SetQuantity(%d): %v", qty, err)
		}
		if _, ok := cart.Item(p1.ID); ok {
			t.Errorf("qty %d: line should be removed", qty)
		}
		if cart.TotalPrice != removed.TotalPrice || cart.ItemCount != removed.ItemCount {
			t.Errorf("qty %d: set-to-zero should equal removal (%v vs %v)", qty, cart.TotalPrice, removed.TotalPrice)
		}
	}
}

func TestSetQuantityUnknownLine(t *testing.T) {
	cart := NewCart(bson.NewObjectID())
	err := cart.SetQuantity(bson.NewObjectID(), 2)
	if !errors.Is(err, global.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTotalsHoldAcrossOperationSequence(t *testing.T) {
	products := []*Product{
		testProduct("guppy", 2.99, 100),
		testProduct("filter", 49.95, 100),
		testProduct("food", 7.1, 100),
	}
	cart := NewCart(bson.NewObjectID())
	now := time.Now()

	steps := []func(){
		func() { _ = cart.AddItem(products[0], 4, now) },
		func() { _ = cart.AddItem(products[1], 1, now) },
		func() { _ = cart.SetQuantity(products[0].ID, 7) },
		func() { _ = cart.AddItem(products[2], 3, now) },
		func() { _ = cart.RemoveItem(products[1].ID) },
		func() { _ = cart.SetQuantity(products[2].ID, -2) },
		func() { _ = cart.AddItem(products[1], 2, now) },
	}
	for i, step := range steps {
		step()
		want, count := expectedTotal(cart)
		if diff := cart.TotalPrice - want; diff > 0.005 || diff < -0.005 {
			t.Fatalf("step %d: total = %v, want %v", i, cart.TotalPrice, want)
		}
		if cart.ItemCount != count {
			t.Fatalf("step %d: item count = %d, want %d", i, cart.ItemCount, count)
		}
		seen := map[bson.ObjectID]bool{}
		for _, it := range cart.Items {
			if seen[it.ProductID] {
				t.Fatalf("step %d: duplicate line for %s", i, it.ProductID.Hex())
			}
			seen[it.ProductID] = true
		}
	}
}

func TestDecimalTotalsAvoidFloatDrift(t *testing.T) {
	cart := NewCart(bson.NewObjectID())
	_ = cart.AddItem(testProduct("a", 0.1, 10), 1, time.Now())
	_ = cart.AddItem(testProduct("b", 0.2, 10), 1, time.Now())
	if cart.TotalPrice != 0.3 {
		t.Fatalf("total = %v, want 0.3", cart.TotalPrice)
	}
}

func TestReplaceItems(t *testing.T) {
	a, b := bson.NewObjectID(), bson.NewObjectID()
	cart := NewCart(bson.NewObjectID())
	cart.ReplaceItems([]CartItem{
		{ProductID: a, Price: 10, Quantity: 1},
		{ProductID: b, Price: 5, Quantity: 0},
		{ProductID: a, Price: 10, Quantity: 4},
	})
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 4 {
		t.Fatalf("unexpected items %+v", cart.Items)
	}
	if cart.TotalPrice != 40 {
		t.Errorf("total = %v, want 40", cart.TotalPrice)
	}

	cart.Clear()
	if !cart.IsEmpty() || cart.TotalPrice != 0 || cart.ItemCount != 0 {
		t.Fatalf("clear left %+v", cart)
	}
}

func TestCheckStock(t *testing.T) {
	p := testProduct("tank", 120, 2)
	if err := CheckStock(p, 2); err != nil {
		t.Fatalf("CheckStock: %v", err)
	}
	if err := CheckStock(p, 3); !errors.Is(err, global.ErrValidation) {
		t.Fatalf("expected stock error, got %v", err)
	}
	p.Status = ProductStatusInactive
	if err := CheckStock(p, 1); !errors.Is(err, global.ErrValidation) {
		t.Fatalf("expected availability error, got %v", err)
	}
}

func TestRemoveOrderedKeepsNewerLines(t *testing.T) {
	filter := testProduct("Filter", 20, 10)
	food := testProduct("Food", 5, 10)
	heater := testProduct("Heater", 30, 10)
	now := time.Now()

	cart := NewCart(bson.NewObjectID())
	for _, add := range []struct {
		p   *Product
		qty int
	}{{filter, 1}, {food, 3}, {heater, 1}} {
		if err := cart.AddItem(add.p, add.qty, now); err != nil {
			t.Fatalf("AddItem %s: %v", add.p.Name, err)
		}
	}

	// filter and food were ordered; food was bumped to 3 after checkout.
	cart.RemoveOrdered([]OrderItem{
		{ProductID: filter.ID, Quantity: 1},
		{ProductID: food.ID, Quantity: 2},
	})

	if len(cart.Items) != 2 {
		t.Fatalf("items = %+v", cart.Items)
	}
	if _, ok := cart.Item(filter.ID); ok {
		t.Error("ordered line should be removed")
	}
	if line, ok := cart.Item(food.ID); !ok || line.Quantity != 3 {
		t.Errorf("changed line should stay, got %+v", line)
	}
	if _, ok := cart.Item(heater.ID); !ok {
		t.Error("unordered line should stay")
	}
	total, count := expectedTotal(cart)
	if cart.TotalPrice != total || cart.ItemCount != count {
		t.Errorf("totals = %v/%d, want %v/%d", cart.TotalPrice, cart.ItemCount, total, count)
	}
}

package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/global"
)

// ErrCartVersionConflict reports that a cart changed between read and write.
var ErrCartVersionConflict = errors.New("cart version conflict")

// CartItem snapshots the product at the time it was added.
type CartItem struct {
	ProductID bson.ObjectID `json:"product_id" bson:"product_id"`
	Name      string        `json:"name" bson:"name"`
	Image     string        `json:"image" bson:"image"`
	Price     float64       `json:"price" bson:"price"`
	Quantity  int           `json:"quantity" bson:"quantity"`
	Subtotal  float64       `json:"subtotal" bson:"subtotal"`
	AddedAt   time.Time     `json:"added_at" bson:"added_at"`
}

// Cart is the per-user cart document. Its _id is the owner's user id.
type Cart struct {
	UserID     bson.ObjectID `json:"user_id" bson:"_id"`
	Items      []CartItem    `json:"items" bson:"items"`
	TotalPrice float64       `json:"total_price" bson:"total_price"`
	ItemCount  int           `json:"item_count" bson:"item_count"`
	Version    int64         `json:"-" bson:"version"`
	UpdatedAt  time.Time     `json:"updated_at" bson:"updated_at"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// UpdateCartItemRequest allows zero and negative quantities; both remove the line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type CartLine struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type ReplaceCartRequest struct {
	Items []CartLine `json:"items" validate:"dive"`
}

func NewCart(userID bson.ObjectID) *Cart {
	return &Cart{
		UserID: userID,
		Items:  []CartItem{},
	}
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) indexOf(productID bson.ObjectID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Item returns the line for productID, if present.
func (c *Cart) Item(productID bson.ObjectID) (*CartItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return &c.Items[i], true
	}
	return nil, false
}

// AddItem puts product in the cart with the given quantity. A product that is
// already in the cart keeps a single line whose quantity becomes quantity.
func (c *Cart) AddItem(product *Product, quantity int, now time.Time) error {
	if quantity < 1 {
		return global.NewValidationError("quantity", "Quantity must be at least 1")
	}
	if i := c.indexOf(product.ID); i >= 0 {
		c.Items[i].Quantity = quantity
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.MainImage(),
			Price:     product.Price,
			Quantity:  quantity,
			AddedAt:   now,
		})
	}
	c.Recalculate()
	return nil
}

// SetQuantity changes a line's quantity; quantity <= 0 removes the line.
func (c *Cart) SetQuantity(productID bson.ObjectID, quantity int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return global.NewNotFoundError("product_id", "Item not found in cart")
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}
	c.Recalculate()
	return nil
}

func (c *Cart) RemoveItem(productID bson.ObjectID) error {
	return c.SetQuantity(productID, 0)
}

// ReplaceItems swaps the whole item list. Lines with quantity <= 0 are dropped
// and a later line for the same product replaces an earlier one.
func (c *Cart) ReplaceItems(items []CartItem) {
	replaced := make([]CartItem, 0, len(items))
	seen := make(map[bson.ObjectID]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i, ok := seen[item.ProductID]; ok {
			replaced[i] = item
			continue
		}
		seen[item.ProductID] = len(replaced)
		replaced = append(replaced, item)
	}
	c.Items = replaced
	c.Recalculate()
}

// RemoveOrdered takes out the lines that were ordered. A line whose quantity
// changed since is kept, as it no longer matches what was ordered.
func (c *Cart) RemoveOrdered(items []OrderItem) {
	ordered := make(map[bson.ObjectID]int, len(items))
	for _, item := range items {
		ordered[item.ProductID] = item.Quantity
	}
	kept := make([]CartItem, 0, len(c.Items))
	for _, line := range c.Items {
		if qty, ok := ordered[line.ProductID]; ok && qty == line.Quantity {
			continue
		}
		kept = append(kept, line)
	}
	c.Items = kept
	c.Recalculate()
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.Recalculate()
}

// Recalculate refreshes line subtotals, TotalPrice and ItemCount.
func (c *Cart) Recalculate() {
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	for i := range c.Items {
		c.Items[i].Subtotal = LineTotal(c.Items[i].Price, c.Items[i].Quantity)
	}
	c.TotalPrice, c.ItemCount = sumLines(len(c.Items), func(i int) (float64, int) {
		return c.Items[i].Price, c.Items[i].Quantity
	})
}

// CheckStock verifies the product can satisfy quantity.
func CheckStock(product *Product, quantity int) error {
	if !product.IsAvailable() {
		return global.NewValidationError("product_id", "Product is not available")
	}
	if quantity > product.Stock {
		return global.NewValidationError("quantity", fmt.Sprintf("Only %d left in stock for %s", product.Stock, product.Name))
	}
	return nil
}

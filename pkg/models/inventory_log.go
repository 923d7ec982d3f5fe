package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	InventorySale   = "sale"
	InventoryReturn = "return"
)

// InventoryLog is the audit record written whenever an order moves stock
type InventoryLog struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID       bson.ObjectID `bson:"product_id" json:"product_id"`
	OrderNumber     string        `bson:"order_number" json:"order_number"`
	ChangeType      string        `bson:"change_type" json:"change_type"`
	QuantityChanged int           `bson:"quantity_changed" json:"quantity_changed"` // Can be positive or negative
	CreatedAt       time.Time     `bson:"created_at" json:"created_at"`
}

// NewInventoryLog records a stock change of delta units caused by an order.
func NewInventoryLog(productID bson.ObjectID, orderNumber string, delta int) *InventoryLog {
	changeType := InventorySale
	if delta > 0 {
		changeType = InventoryReturn
	}
	return &InventoryLog{
		ProductID:       productID,
		OrderNumber:     orderNumber,
		ChangeType:      changeType,
		QuantityChanged: delta,
		CreatedAt:       time.Now(),
	}
}

// IsDecrease returns true if inventory decreased
func (il *InventoryLog) IsDecrease() bool {
	return il.QuantityChanged < 0
}

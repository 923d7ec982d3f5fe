package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"aquashop.ca/storefront/api/pkg/global"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipping  OrderStatus = "shipping"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// orderTransitions lists the statuses reachable from each status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:  {StatusPaid, StatusShipping, StatusCancelled},
	StatusPaid:     {StatusShipping},
	StatusShipping: {StatusDelivered},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipping, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const (
	PaymentCOD          = "cod"
	PaymentBankTransfer = "bank_transfer"
	PaymentCard         = "card"
	PaymentEWallet      = "e_wallet"
)

// OrderItem is an immutable line of an order
type OrderItem struct {
	ProductID bson.ObjectID `json:"product_id" bson:"product_id"`
	Name      string        `json:"name" bson:"name"`
	Image     string        `json:"image" bson:"image"`
	Price     float64       `json:"price" bson:"price"`
	Quantity  int           `json:"quantity" bson:"quantity"`
	Subtotal  float64       `json:"subtotal" bson:"subtotal"`
}

// Address is a shipping destination
type Address struct {
	RecipientName string `json:"recipient_name" bson:"recipient_name" validate:"required,min=2,max=100"`
	Phone         string `json:"phone" bson:"phone" validate:"required,min=8,max=20"`
	Street        string `json:"street" bson:"street" validate:"required,max=200"`
	City          string `json:"city" bson:"city" validate:"required,max=100"`
	PostalCode    string `json:"postal_code" bson:"postal_code" validate:"max=20"`
	Country       string `json:"country" bson:"country" validate:"max=100"`
}

// Timeline tracks the lifecycle of an order
type Timeline struct {
	OrderedAt   time.Time  `json:"ordered_at" bson:"ordered_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty" bson:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

type Order struct {
	ID              bson.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderNumber     string        `json:"order_number" bson:"order_number"`
	UserID          bson.ObjectID `json:"user_id" bson:"user_id"`
	Items           []OrderItem   `json:"items" bson:"items"`
	ShippingAddress Address       `json:"shipping_address" bson:"shipping_address"`
	PaymentMethod   string        `json:"payment_method" bson:"payment_method"`
	Total           float64       `json:"total" bson:"total"`
	ItemCount       int           `json:"item_count" bson:"item_count"`
	Status          OrderStatus   `json:"status" bson:"status"`
	Timeline        Timeline      `json:"timeline" bson:"timeline"`
	Note            string        `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

type PlaceOrderRequest struct {
	ShippingAddress Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cod bank_transfer card e_wallet"`
	Note            string  `json:"note" validate:"max=500"`
}

type BuyNowRequest struct {
	ProductID       string  `json:"product_id" validate:"required"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	ShippingAddress Address `json:"shipping_address" validate:"required"`
	PaymentMethod   string  `json:"payment_method" validate:"required,oneof=cod bank_transfer card e_wallet"`
	Note            string  `json:"note" validate:"max=500"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending paid shipping delivered cancelled"`
}

// OrderItemsFromCart snapshots cart lines into order lines.
func OrderItemsFromCart(cart *Cart) []OrderItem {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	return items
}

// NewOrder builds a pending order for userID with computed totals.
func NewOrder(userID bson.ObjectID, items []OrderItem, address Address, paymentMethod, note string, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, global.NewValidationError("items", "Order must contain at least one item")
	}
	o := &Order{
		ID:              bson.NewObjectID(),
		OrderNumber:     GenerateOrderNumber(now),
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		Status:          StatusPending,
		Note:            note,
		Timeline:        Timeline{OrderedAt: now},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	o.CalculateTotals()
	return o, nil
}

// CalculateTotals refreshes item subtotals, Total and ItemCount.
func (o *Order) CalculateTotals() {
	for i := range o.Items {
		o.Items[i].Subtotal = LineTotal(o.Items[i].Price, o.Items[i].Quantity)
	}
	o.Total, o.ItemCount = sumLines(len(o.Items), func(i int) (float64, int) {
		return o.Items[i].Price, o.Items[i].Quantity
	})
}

// CanBeCancelled reports whether the owner may still cancel the order.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending
}

// ApplyStatus moves the order to next and stamps the timeline.
func (o *Order) ApplyStatus(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return global.NewInvalidStateError("status", fmt.Sprintf("Order cannot move from %s to %s", o.Status, next))
	}
	o.Status = next
	StampTimeline(&o.Timeline, next, now)
	o.UpdatedAt = now
	return nil
}

// StampTimeline records when status was entered.
func StampTimeline(t *Timeline, status OrderStatus, now time.Time) {
	switch status {
	case StatusPaid:
		if t.PaidAt == nil {
			t.PaidAt = &now
		}
	case StatusShipping:
		if t.ShippedAt == nil {
			t.ShippedAt = &now
		}
	case StatusDelivered:
		if t.DeliveredAt == nil {
			t.DeliveredAt = &now
		}
	case StatusCancelled:
		if t.CancelledAt == nil {
			t.CancelledAt = &now
		}
	}
}

// TimelineField is the timeline document key stamped when entering status.
func TimelineField(status OrderStatus) string {
	switch status {
	case StatusPaid:
		return "timeline.paid_at"
	case StatusShipping:
		return "timeline.shipped_at"
	case StatusDelivered:
		return "timeline.delivered_at"
	case StatusCancelled:
		return "timeline.cancelled_at"
	}
	return ""
}

// CancelRefusal is the message shown when an order in status cannot be cancelled.
func CancelRefusal(status OrderStatus) string {
	return fmt.Sprintf("Order can no longer be cancelled: it is %s", status)
}

func GenerateOrderNumber(now time.Time) string {
	// Format: AQ-YYYYMMDD-XXXXXXXX
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("AQ-%s-%s", now.UTC().Format("20060102"), suffix)
}

// StatusSummary aggregates the orders currently in one status.
type StatusSummary struct {
	Status  OrderStatus `json:"status" bson:"_id"`
	Orders  int         `json:"orders" bson:"orders"`
	Items   int         `json:"items" bson:"items"`
	Revenue float64     `json:"revenue" bson:"revenue"`
}

// SalesReport is the admin overview of orders by status.
type SalesReport struct {
	ByStatus    []StatusSummary `json:"by_status"`
	TotalOrders int             `json:"total_orders"`
	// Revenue counts every order that was not cancelled.
	Revenue float64 `json:"revenue"`
}

// NewSalesReport totals per-status summaries.
func NewSalesReport(byStatus []StatusSummary) SalesReport {
	if byStatus == nil {
		byStatus = []StatusSummary{}
	}
	report := SalesReport{ByStatus: byStatus}
	revenue := decimal.Zero
	for _, s := range byStatus {
		report.TotalOrders += s.Orders
		if s.Status != StatusCancelled {
			revenue = revenue.Add(decimal.NewFromFloat(s.Revenue))
		}
	}
	report.Revenue = revenue.Round(2).InexactFloat64()
	return report
}

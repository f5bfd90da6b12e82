// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// ErrInvalidOwner is returned when an owner carries neither a user nor guest contact data
var ErrInvalidOwner = errors.New("order owner requires a user or guest contact details")

// Order represents a placed order. UserID is nil for guest orders, in which
// case GuestEmail/GuestPhone/GuestName carry the contact details instead.
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      *uint       `gorm:"index" json:"user_id,omitempty"`
	GuestEmail  string      `gorm:"size:255" json:"guest_email,omitempty"`
	GuestPhone  string      `gorm:"size:20" json:"guest_phone,omitempty"`
	GuestName   string      `gorm:"size:255" json:"guest_name,omitempty"`
	Status      OrderStatus `gorm:"not null;default:'pending'" json:"status"`

	// Amounts in cents
	SubtotalAmount int64 `gorm:"not null" json:"subtotal_amount"`
	ShippingAmount int64 `gorm:"default:0" json:"shipping_amount"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`

	AddressID uint `gorm:"not null;index" json:"address_id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Address  *Address    `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	Payments []Payment   `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"payments,omitempty"`
}

// OrderItem snapshots a purchased variant at placement time. SKU, name and
// unit price are copied so later catalog edits never change past orders.
type OrderItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	OrderID          uint      `gorm:"not null;index" json:"order_id"`
	ProductVariantID uint      `gorm:"not null;index" json:"product_variant_id"`
	SKU              string    `gorm:"not null;size:100" json:"sku"`
	Name             string    `gorm:"not null;size:255" json:"name"`
	Size             string    `gorm:"size:50" json:"size"`
	Color            string    `gorm:"size:50" json:"color"`
	Quantity         int       `gorm:"not null" json:"quantity"`
	Price            int64     `gorm:"not null" json:"price"` // Unit price in cents
	TotalPrice       int64     `gorm:"not null" json:"total_price"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Payment represents a payment record attached to an order. Gateway capture
// is out of scope; orders start with a single unpaid record.
type Payment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	OrderID     uint          `gorm:"not null;index" json:"order_id"`
	Method      string        `gorm:"not null;size:50" json:"method"`
	Amount      int64         `gorm:"not null" json:"amount"` // In cents
	Status      PaymentStatus `gorm:"not null;default:'unpaid'" json:"status"`
	ProcessedAt *time.Time    `json:"processed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Address is the shipping address snapshot created per order
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id,omitempty"`
	FullName   string    `gorm:"size:200" json:"full_name"`
	Street     string    `gorm:"not null;size:255" json:"street"`
	City       string    `gorm:"not null;size:100" json:"city"`
	PostalCode string    `gorm:"size:20" json:"postal_code"`
	Country    string    `gorm:"size:2" json:"country"`
	Phone      string    `gorm:"size:20" json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
func (Payment) TableName() string   { return "payments" }
func (Address) TableName() string   { return "addresses" }

// Owner identifies who an order belongs to: exactly one of a registered user
// or a guest contact. Construct via AuthenticatedOwner or GuestOwner.
type Owner struct {
	userID     *uint
	guestEmail string
	guestPhone string
	guestName  string
}

// AuthenticatedOwner builds an owner for a logged-in user
func AuthenticatedOwner(userID uint) Owner {
	return Owner{userID: &userID}
}

// GuestOwner builds an owner from guest contact details
func GuestOwner(email, phone, name string) Owner {
	return Owner{guestEmail: email, guestPhone: phone, guestName: name}
}

// IsGuest reports whether the owner is a guest
func (o Owner) IsGuest() bool {
	return o.userID == nil
}

// UserID returns the owning user's ID, or nil for guests
func (o Owner) UserID() *uint {
	return o.userID
}

// Validate ensures the owner carries usable identity data
func (o Owner) Validate() error {
	if o.userID == nil && o.guestEmail == "" {
		return ErrInvalidOwner
	}
	return nil
}

// Apply writes the owner fields onto an order. Exactly one side is ever
// populated: guest contact fields are cleared for authenticated owners.
func (o Owner) Apply(order *Order) {
	order.UserID = o.userID
	order.GuestEmail, order.GuestPhone, order.GuestName = "", "", ""
	if o.userID == nil {
		order.GuestEmail = o.guestEmail
		order.GuestPhone = o.guestPhone
		order.GuestName = o.guestName
	}
}

// Business methods for Order

// GenerateOrderNumber generates a unique order number
func (o *Order) GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXX
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("20060102"), o.ID)
}

// GetFormattedTotal returns total amount as float
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalAmount) / 100
}

// CanBeCancelled checks if order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusProcessing
}

// ValidTransition reports whether an order may move from one status to another
func ValidTransition(from, to OrderStatus) bool {
	validTransitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending: {
			OrderStatusProcessing,
			OrderStatusCancelled,
		},
		OrderStatusProcessing: {
			OrderStatusCompleted,
			OrderStatusCancelled,
		},
	}

	allowed, exists := validTransitions[from]
	if !exists {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

package models

import (
	"time"
)

const (
	RoleUser  = 0
	RoleAdmin = 1
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Email     string    `gorm:"uniqueIndex;not null"     json:"email"`
	Password  string    `gorm:"not null"                 json:"-"`
	Phone     string    `gorm:"not null"                 json:"phone"`
	Address   string    `gorm:"not null"                 json:"address"`
	Answer    string    `gorm:"not null"                 json:"-"`
	Role      int       `gorm:"not null;default:0"       json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
	Slug string `gorm:"index;not null"           json:"slug"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Slug        string    `gorm:"index;not null"           json:"slug"`
	Description string    `gorm:"not null"                 json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	CategoryID  uint      `gorm:"index;not null"           json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Quantity    int       `gorm:"not null"                 json:"quantity"`
	Photo       []byte    `json:"-"`
	PhotoType   string    `json:"photo_type,omitempty"`
	Shipping    bool      `json:"shipping"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	StatusNotProcessed OrderStatus = "Not Processed"
	StatusProcessing   OrderStatus = "Processing"
	StatusShipped      OrderStatus = "Shipped"
	StatusDelivered    OrderStatus = "Delivered"
	StatusCancelled    OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNotProcessed, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference     string      `gorm:"uniqueIndex;not null"     json:"reference"`
	BuyerID       uint        `gorm:"index;not null"           json:"buyer_id"`
	Buyer         *User       `gorm:"foreignKey:BuyerID"       json:"buyer,omitempty"`
	Status        OrderStatus `gorm:"not null"                 json:"status"`
	PaymentID     string      `json:"payment_id"`
	PaymentStatus string      `json:"payment_status"`
	Total         float64     `json:"total"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint     `gorm:"index;not null"           json:"order_id"`
	ProductID uint     `gorm:"not null"                 json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  int      `gorm:"default:1"                json:"quantity"`
	Price     float64  `json:"price"`
}

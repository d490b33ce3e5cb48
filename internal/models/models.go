package models

import (
	"time"
)

type Category struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"unique;not null"          json:"name"`
	AllowRent bool   `gorm:"default:false"            json:"allow_rent"`
}

type Product struct {
	ID               uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string   `gorm:"not null"                 json:"name"`
	Description      string   `gorm:"not null"                 json:"description"`
	Price            float64  `gorm:"not null"                 json:"price"`
	RentPrice        *float64 `json:"rent_price,omitempty"`
	CategoryID       uint     `gorm:"index;not null"           json:"category_id"`
	Image            string   `json:"image"`
	Quantity         uint     `json:"quantity"`
	IsForSale        bool     `gorm:"default:true"             json:"is_for_sale"`
	IsForRent        bool     `gorm:"default:false"            json:"is_for_rent"`
	ConditionPercent int      `gorm:"default:100"              json:"condition_percent"`
	RentDurationDays *int     `json:"rent_duration_days,omitempty"`
}

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"unique;not null"          json:"username"`
	Email        string     `gorm:"index"                    json:"email"`
	PasswordHash string     `gorm:"not null"                 json:"-"`
	Role         string     `gorm:"not null"                 json:"role"`
	FullName     string     `json:"full_name"`
	Address      string     `json:"address"`
	PhoneNumber  string     `json:"phone_number"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	AvatarURL    string     `json:"avatar_url"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type PasswordResetToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Used      bool   `gorm:"default:false"   json:"used"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

// KnownOrderStatus reports whether s is one of the persisted status values.
func KnownOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID          uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint        `gorm:"index;not null"           json:"user_id"`
	Name        string      `json:"name"`
	Line1       string      `json:"line1"`
	Line2       string      `json:"line2"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Zip         string      `json:"zip"`
	Country     string      `json:"country"`
	GiftWrap    bool        `json:"gift_wrap"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `gorm:"index;not null"           json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	Lines       []OrderLine `gorm:"foreignKey:OrderID"       json:"lines"`
}

type OrderLine struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"order_id"`
	ProductID uint    `gorm:"index;not null"           json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  uint    `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type Rental struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	ProductID uint      `gorm:"index"                    json:"product_id"`
	ItemTitle string    `gorm:"not null"                 json:"item_title"`
	StartDate time.Time `gorm:"not null"                 json:"start_date"`
	EndDate   time.Time `gorm:"not null"                 json:"end_date"`
	Returned  bool      `gorm:"default:false"            json:"returned"`
}

type ProductReview struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"                     json:"id"`
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_review_user_product" json:"product_id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_review_user_product" json:"user_id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `gorm:"not null"                                     json:"rating"`
	Comment      string    `gorm:"not null"                                     json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type Tutor struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Subject     string  `gorm:"not null"                 json:"subject"`
	HourlyRate  float64 `gorm:"not null"                 json:"hourly_rate"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	PhoneNumber string  `json:"phone_number"`
	Email       string  `json:"email"`
	Degree      string  `json:"degree"`
}

type TutorBooking struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TutorID       uint      `gorm:"index;not null"           json:"tutor_id"`
	UserID        uint      `gorm:"index;not null"           json:"user_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	DurationHours int       `gorm:"not null"                 json:"duration_hours"`
	NumberOfDays  int       `gorm:"not null"                 json:"number_of_days"`
	StartTime     time.Time `gorm:"not null"                 json:"start_time"`
	Notes         string    `json:"notes"`
	TotalPrice    float64   `json:"total_price"`
	Confirmed     bool      `gorm:"default:false"            json:"confirmed"`
	Paid          bool      `gorm:"default:false"            json:"paid"`
	CreatedAt     time.Time `json:"created_at"`
}

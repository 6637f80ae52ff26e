// models.go

package main

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an admin-panel account (email + password login).
// Mobile shoppers live in MobileUser.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	Blocked   bool               `bson:"blocked" json:"blocked"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type MobileUser struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Mobile      string             `bson:"mobile" json:"mobile"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Blocked     bool               `bson:"blocked" json:"blocked"`
	LastLoginAt time.Time          `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Brand         string             `bson:"brand" json:"brand"`
	SKU           string             `bson:"sku" json:"sku"`
	Price         float64            `bson:"price" json:"price"`
	DiscountPrice float64            `bson:"discountPrice" json:"discountPrice"`
	Stock         int                `bson:"stock" json:"stock"`
	Status        string             `bson:"status" json:"status"`
	Description   string             `bson:"description" json:"description"`
	Category      primitive.ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Section       primitive.ObjectID `bson:"section,omitempty" json:"section,omitempty"`
	Colors        []string           `bson:"colors,omitempty" json:"colors,omitempty"`
	Sizes         []string           `bson:"sizes,omitempty" json:"sizes,omitempty"`
	Gender        string             `bson:"gender,omitempty" json:"gender,omitempty"`
	FabricDetails string             `bson:"fabricDetails,omitempty" json:"fabricDetails,omitempty"`
	Images        []string           `bson:"images,omitempty" json:"images,omitempty"`
	SizeChart     string             `bson:"sizeChart,omitempty" json:"sizeChart,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type Section struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type BannerSlider struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title,omitempty" json:"title,omitempty"`
	Image     string             `bson:"image" json:"image"`
	Link      string             `bson:"link,omitempty" json:"link,omitempty"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

// CategoryBanner is a promotional image tied to one category; a category can
// carry several, and only Active ones are served to the storefront.
type CategoryBanner struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Category  primitive.ObjectID `bson:"category" json:"category"`
	Image     string             `bson:"image" json:"image"`
	Status    string             `bson:"status" json:"status"` // "Active" or "Inactive"
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Mobile    string             `bson:"mobile" json:"mobile"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Address1  string             `bson:"address1" json:"address1"`
	Address2  string             `bson:"address2,omitempty" json:"address2,omitempty"`
	City      string             `bson:"city" json:"city"`
	Country   string             `bson:"country" json:"country"`
	Zip       string             `bson:"zip" json:"zip"`
	Phone     string             `bson:"phone" json:"phone"`
	IsDefault bool               `bson:"isDefault" json:"isDefault"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type Coupon struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code          string             `bson:"code" json:"code"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType  string             `bson:"discountType" json:"discountType"` // "flat" or "percent"
	DiscountValue float64            `bson:"discountValue" json:"discountValue"`
	MinPurchase   float64            `bson:"minPurchase" json:"minPurchase"`
	MaxDiscount   float64            `bson:"maxDiscount,omitempty" json:"maxDiscount,omitempty"`
	ExpiryDate    time.Time          `bson:"expiryDate" json:"expiryDate"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

// AppliedCoupon is a copy of the coupon taken when it is applied to a cart.
// Later edits to the coupon catalog do not reach carts that already hold it.
type AppliedCoupon struct {
	Code          string    `bson:"code" json:"code"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	DiscountType  string    `bson:"discountType" json:"discountType"`
	DiscountValue float64   `bson:"discountValue" json:"discountValue"`
	MinPurchase   float64   `bson:"minPurchase" json:"minPurchase"`
	MaxDiscount   float64   `bson:"maxDiscount,omitempty" json:"maxDiscount,omitempty"`
	ExpiryDate    time.Time `bson:"expiryDate" json:"expiryDate"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
}

type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Size     string             `bson:"size" json:"size"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart is one document per user. At most one line per (product, size) pair
// and at most one applied coupon.
type Cart struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Items         []CartItem         `bson:"items" json:"items"`
	AppliedCoupon *AppliedCoupon     `bson:"appliedCoupon,omitempty" json:"appliedCoupon,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// OrderItem carries the price at order time; later product price edits do
// not change past orders.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Size     string             `bson:"size,omitempty" json:"size,omitempty"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// OrderAddress is a denormalized copy, not a reference into the address book.
type OrderAddress struct {
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	FullAddress string `bson:"fullAddress,omitempty" json:"fullAddress,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
	Zip         string `bson:"zip,omitempty" json:"zip,omitempty"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User              primitive.ObjectID `bson:"user" json:"user"`
	Items             []OrderItem        `bson:"items" json:"items"`
	Address           OrderAddress       `bson:"address" json:"address"`
	Subtotal          float64            `bson:"subtotal" json:"subtotal"`
	CouponCode        string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	DiscountAmount    float64            `bson:"discountAmount,omitempty" json:"discountAmount,omitempty"`
	PaymentMethod     string             `bson:"paymentMethod" json:"paymentMethod"`   // "cod" or "online"
	DeliveryOption    string             `bson:"deliveryOption" json:"deliveryOption"` // "standard" or "home"
	ShippingFee       float64            `bson:"shippingFee" json:"shippingFee"`
	TotalAmount       float64            `bson:"totalAmount" json:"totalAmount"`
	Status            string             `bson:"status" json:"status"`
	RazorpayOrderID   string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the marketplace role stored on a user document. The zero value
// means the user has registered but has not been assigned a role yet.
type Role string

const (
	RoleUnassigned Role = ""
	RoleBuyer      Role = "buyer"
	RoleSeller     Role = "seller"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Role      Role               `bson:"role,omitempty" json:"role,omitempty"`
	Verified  bool               `bson:"verified" json:"verified"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name           string             `bson:"name" json:"name"`
	CategoryID     string             `bson:"categoryId" json:"categoryId"`
	Price          float64            `bson:"price" json:"price"`
	OriginalPrice  float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	YearOfPurchase int                `bson:"yearOfPurchase,omitempty" json:"yearOfPurchase,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL       string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	SellerName     string             `bson:"sellerName,omitempty" json:"sellerName,omitempty"`
	SellerEmail    string             `bson:"sellerEmail" json:"sellerEmail"`
	PostedAt       time.Time          `bson:"postedAt,omitempty" json:"postedAt,omitempty"`
	Sold           bool               `bson:"sold" json:"sold"`
	Booked         bool               `bson:"booked" json:"booked"`
	Advertised     bool               `bson:"advertised" json:"advertised"`
}

type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name string             `bson:"name" json:"name"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID       string             `bson:"productId" json:"productId"`
	ProductName     string             `bson:"productName,omitempty" json:"productName,omitempty"`
	Price           float64            `bson:"price,omitempty" json:"price,omitempty"`
	Email           string             `bson:"email" json:"email"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	MeetingLocation string             `bson:"meetingLocation,omitempty" json:"meetingLocation,omitempty"`
	Paid            bool               `bson:"paid" json:"paid"`
	TransactionID   string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type Advertisement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID   string             `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName,omitempty" json:"productName,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	SellerEmail string             `bson:"sellerEmail" json:"sellerEmail"`
	Sold        bool               `bson:"sold" json:"sold"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type WishlistEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID   string             `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName,omitempty" json:"productName,omitempty"`
	Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Email       string             `bson:"email" json:"email"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID     string             `bson:"productId" json:"productId"`
	Price         float64            `bson:"price" json:"price"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	TransactionID string             `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

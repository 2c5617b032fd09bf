package orders

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID    string             `bson:"productId" json:"productId"`
	ProductName  string             `bson:"productName" json:"productName"`
	ProductPrice float64            `bson:"productPrice" json:"productPrice"`
	ClientName   string             `bson:"clientName" json:"clientName"`
	Wilaya       string             `bson:"wilaya" json:"wilaya"`
	Address      string             `bson:"address" json:"address"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email" json:"email"`
	Color        string             `bson:"color,omitempty" json:"color,omitempty"`
	Size         string             `bson:"size,omitempty" json:"size,omitempty"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Status       Status             `bson:"status" json:"status"`
	OrderDate    time.Time          `bson:"orderDate" json:"orderDate"`
	IPAddress    string             `bson:"ipAddress" json:"ipAddress"`
	UserAgent    string             `bson:"userAgent" json:"userAgent"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified"`
}

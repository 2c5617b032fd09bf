package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dzcommerce/storefront-api/internal/media"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Colors      []string           `bson:"colors" json:"colors"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Photos      []media.Ref        `bson:"photos" json:"photos"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

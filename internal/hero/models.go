package hero

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dzcommerce/storefront-api/internal/media"
)

// Content is one promotional banner block on the storefront landing area.
type Content struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Subtitle   string             `bson:"subtitle" json:"subtitle"`
	ButtonText string             `bson:"buttonText,omitempty" json:"buttonText,omitempty"`
	Theme      string             `bson:"theme,omitempty" json:"theme,omitempty"`
	Order      int                `bson:"order" json:"order"`
	MediaType  media.Kind         `bson:"mediaType" json:"mediaType"`
	Media      media.Ref          `bson:"media" json:"media"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

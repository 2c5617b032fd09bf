package orders

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dzcommerce/storefront-api/internal/apperr"
)

const (
	// Lookback window for the duplicate and per-address checks.
	lookback = time.Hour

	// An address that already placed this many orders inside the window is
	// rejected outright.
	maxPerAddress = 5

	// Below this many prior orders in the window the order is flagged
	// verified. A trust signal, not a gate.
	verifyThreshold = 2
)

var (
	ErrDuplicate = errors.New("duplicate order: same product, phone and email within the last hour")
	ErrTooMany   = errors.New("too many orders from this address, try again later")
)

// Algerian mobile numbers: 05/06/07 followed by eight digits.
var phoneRe = regexp.MustCompile(`^0[567][0-9]{8}$`)

// Deliberately loose: something@something.tld.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Payload is a candidate order as submitted by the storefront.
type Payload struct {
	ProductID    string  `json:"productId" validate:"required"`
	ProductName  string  `json:"productName" validate:"required"`
	ProductPrice float64 `json:"productPrice" validate:"required,gt=0"`
	ClientName   string  `json:"clientName" validate:"required"`
	Wilaya       string  `json:"wilaya" validate:"required"`
	Address      string  `json:"address" validate:"required"`
	Phone        string  `json:"phone" validate:"required,dzmobile"`
	Email        string  `json:"email" validate:"required,basicemail"`
	Color        string  `json:"color"`
	Size         string  `json:"size"`
	Quantity     int     `json:"quantity" validate:"omitempty,gte=1"`
}

// Store is the order persistence surface the intake needs.
type Store interface {
	Insert(ctx context.Context, o *Order) error
	HasRecent(ctx context.Context, productID, phone, email string, since time.Time) (bool, error)
	CountByIP(ctx context.Context, ip string, since time.Time) (int64, error)
}

type Intake struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

func NewIntake(store Store) *Intake {
	v := validator.New()
	_ = v.RegisterValidation("dzmobile", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	return &Intake{store: store, validate: v, now: time.Now}
}

// Create validates p, applies the anti-abuse checks and persists the order.
// The duplicate check and the insert are not transactionally linked, so two
// concurrent requests can both pass the check; the policy is a deterrent,
// not a guarantee.
func (in *Intake) Create(ctx context.Context, p Payload, ip, userAgent string) (*Order, error) {
	if err := in.validate.Struct(p); err != nil {
		return nil, &apperr.Validation{Reason: reasonFor(err)}
	}

	now := in.now()
	since := now.Add(-lookback)

	dup, err := in.store.HasRecent(ctx, p.ProductID, p.Phone, p.Email, since)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrDuplicate
	}

	prior, err := in.store.CountByIP(ctx, ip, since)
	if err != nil {
		return nil, err
	}
	if prior >= maxPerAddress {
		return nil, ErrTooMany
	}

	qty := p.Quantity
	if qty < 1 {
		qty = 1
	}
	o := &Order{
		ProductID:    p.ProductID,
		ProductName:  p.ProductName,
		ProductPrice: p.ProductPrice,
		ClientName:   p.ClientName,
		Wilaya:       p.Wilaya,
		Address:      p.Address,
		Phone:        p.Phone,
		Email:        p.Email,
		Color:        p.Color,
		Size:         p.Size,
		Quantity:     qty,
		Status:       StatusPending,
		OrderDate:    now,
		IPAddress:    ip,
		UserAgent:    userAgent,
		IsVerified:   prior < verifyThreshold,
	}
	if err := in.store.Insert(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// reasonFor turns validator output into a single human-readable reason.
func reasonFor(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid order payload"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fieldName(fe.Field()) + " is required"
	case "dzmobile":
		return "phone must be a valid mobile number"
	case "basicemail":
		return "email must be a valid email address"
	case "gt":
		return fieldName(fe.Field()) + " must be greater than zero"
	case "gte":
		return fieldName(fe.Field()) + " must be at least 1"
	}
	return fieldName(fe.Field()) + " is invalid"
}

func fieldName(f string) string {
	switch f {
	case "ProductID":
		return "productId"
	case "ProductName":
		return "productName"
	case "ProductPrice":
		return "productPrice"
	case "ClientName":
		return "clientName"
	case "Wilaya":
		return "wilaya"
	case "Address":
		return "address"
	case "Phone":
		return "phone"
	case "Email":
		return "email"
	case "Quantity":
		return "quantity"
	}
	return f
}

package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzcommerce/storefront-api/internal/apperr"
)

type fakeStore struct {
	saved     []Order
	insertErr error
}

func (f *fakeStore) Insert(_ context.Context, o *Order) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.saved = append(f.saved, *o)
	return nil
}

func (f *fakeStore) HasRecent(_ context.Context, productID, phone, email string, since time.Time) (bool, error) {
	for _, o := range f.saved {
		if o.ProductID == productID && o.Phone == phone && o.Email == email && !o.OrderDate.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountByIP(_ context.Context, ip string, since time.Time) (int64, error) {
	var n int64
	for _, o := range f.saved {
		if o.IPAddress == ip && !o.OrderDate.Before(since) {
			n++
		}
	}
	return n, nil
}

func validPayload() Payload {
	return Payload{
		ProductID:    "prod-1",
		ProductName:  "Djellaba",
		ProductPrice: 4500,
		ClientName:   "Amina B",
		Wilaya:       "Alger",
		Address:      "12 rue Didouche Mourad",
		Phone:        "0551234567",
		Email:        "amina@example.com",
	}
}

func newTestIntake(store Store) *Intake {
	return NewIntake(store)
}

func TestCreateAcceptsValidOrder(t *testing.T) {
	store := &fakeStore{}
	in := newTestIntake(store)

	o, err := in.Create(context.Background(), validPayload(), "41.1.1.1", "test-agent")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 1, o.Quantity, "quantity defaults to 1")
	assert.True(t, o.IsVerified)
	assert.Equal(t, "41.1.1.1", o.IPAddress)
	assert.Equal(t, "test-agent", o.UserAgent)
	require.Len(t, store.saved, 1)
}

func TestCreateRequiredFields(t *testing.T) {
	store := &fakeStore{}
	in := newTestIntake(store)

	for _, mutate := range []func(*Payload){
		func(p *Payload) { p.ProductID = "" },
		func(p *Payload) { p.ProductName = "" },
		func(p *Payload) { p.ProductPrice = 0 },
		func(p *Payload) { p.ClientName = "" },
		func(p *Payload) { p.Wilaya = "" },
		func(p *Payload) { p.Address = "" },
		func(p *Payload) { p.Phone = "" },
		func(p *Payload) { p.Email = "" },
	} {
		p := validPayload()
		mutate(&p)
		_, err := in.Create(context.Background(), p, "41.1.1.1", "ua")
		assert.True(t, apperr.IsValidation(err), "expected validation error, got %v", err)
	}
	assert.Empty(t, store.saved, "rejected orders must not be persisted")
}

func TestCreatePhonePattern(t *testing.T) {
	in := newTestIntake(&fakeStore{})

	p := validPayload()
	p.Phone = "1234567890"
	_, err := in.Create(context.Background(), p, "41.1.1.1", "ua")
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "phone")

	p.Phone = "0551234567"
	p.Email = "other@example.com"
	_, err = in.Create(context.Background(), p, "41.1.1.1", "ua")
	assert.NoError(t, err)
}

func TestCreateEmailPattern(t *testing.T) {
	in := newTestIntake(&fakeStore{})

	p := validPayload()
	p.Email = "a@b"
	_, err := in.Create(context.Background(), p, "41.1.1.1", "ua")
	require.True(t, apperr.IsValidation(err))
	assert.Contains(t, err.Error(), "email")

	p.Email = "a@b.com"
	_, err = in.Create(context.Background(), p, "41.1.1.1", "ua")
	assert.NoError(t, err)
}

func TestCreateRejectsDuplicateWithinWindow(t *testing.T) {
	store := &fakeStore{}
	in := newTestIntake(store)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	in.now = func() time.Time { return base }

	_, err := in.Create(context.Background(), validPayload(), "41.1.1.1", "ua")
	require.NoError(t, err)

	// 30 minutes later: same product+phone+email is a duplicate
	in.now = func() time.Time { return base.Add(30 * time.Minute) }
	_, err = in.Create(context.Background(), validPayload(), "41.1.1.2", "ua")
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, store.saved, 1)

	// a full hour later the same triple goes through again
	in.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, err = in.Create(context.Background(), validPayload(), "41.1.1.2", "ua")
	assert.NoError(t, err)
	assert.Len(t, store.saved, 2)
}

func TestCreateRateLimitsPerAddress(t *testing.T) {
	store := &fakeStore{}
	in := newTestIntake(store)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		in.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		p := validPayload()
		p.ProductID = "prod-" + string(rune('a'+i))
		p.Email = p.ProductID + "@example.com"
		_, err := in.Create(context.Background(), p, "41.1.1.1", "ua")
		require.NoError(t, err, "order %d should be accepted", i+1)
	}

	// the 6th from the same address inside the hour is rejected
	in.now = func() time.Time { return base.Add(10 * time.Minute) }
	p := validPayload()
	p.ProductID = "prod-z"
	p.Email = "z@example.com"
	_, err := in.Create(context.Background(), p, "41.1.1.1", "ua")
	assert.ErrorIs(t, err, ErrTooMany)
	assert.Len(t, store.saved, 5)
}

func TestCreateVerifiedFlag(t *testing.T) {
	store := &fakeStore{}
	in := newTestIntake(store)

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	in.now = func() time.Time { return base }

	mk := func(i int) Payload {
		p := validPayload()
		p.ProductID = "prod-" + string(rune('a'+i))
		p.Email = p.ProductID + "@example.com"
		return p
	}

	// 0 and 1 prior orders: verified
	o1, err := in.Create(context.Background(), mk(0), "41.1.1.1", "ua")
	require.NoError(t, err)
	assert.True(t, o1.IsVerified)

	o2, err := in.Create(context.Background(), mk(1), "41.1.1.1", "ua")
	require.NoError(t, err)
	assert.True(t, o2.IsVerified)

	// 2 prior orders: accepted but unverified
	o3, err := in.Create(context.Background(), mk(2), "41.1.1.1", "ua")
	require.NoError(t, err)
	assert.False(t, o3.IsVerified)
}

func TestCreateKeepsExplicitQuantity(t *testing.T) {
	in := newTestIntake(&fakeStore{})

	p := validPayload()
	p.Quantity = 3
	o, err := in.Create(context.Background(), p, "41.1.1.1", "ua")
	require.NoError(t, err)
	assert.Equal(t, 3, o.Quantity)
}

func TestCreateSurfacesStoreError(t *testing.T) {
	in := newTestIntake(&fakeStore{insertErr: errors.New("write failed")})

	_, err := in.Create(context.Background(), validPayload(), "41.1.1.1", "ua")
	require.Error(t, err)
	assert.False(t, apperr.IsValidation(err))
}

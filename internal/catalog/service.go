package catalog

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dzcommerce/storefront-api/internal/apperr"
	"github.com/dzcommerce/storefront-api/internal/media"
)

type Store interface {
	Insert(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, id string, set bson.M) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type Input struct {
	Name        string
	Price       float64
	Category    string
	Description string
	Colors      []string
	Sizes       []string
}

// UpdateInput carries only the fields the caller supplied.
type UpdateInput struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	Colors      []string
	Sizes       []string
}

type Service struct {
	store Store
	media media.Store
}

func NewService(store Store, m media.Store) *Service {
	return &Service{store: store, media: m}
}

// Create requires name, a positive price, category and at least one photo.
// Each photo is pushed to the media host; a failed upload keeps the staged
// local copy instead, so a product can end up with a mix of remote and
// local photo refs.
func (s *Service) Create(ctx context.Context, in Input, photos []media.Staged) (*Product, error) {
	if in.Name == "" || in.Category == "" {
		return nil, apperr.Validationf("name, price and category are required")
	}
	if in.Price <= 0 {
		return nil, apperr.Validationf("price must be greater than zero")
	}
	if len(photos) == 0 {
		return nil, apperr.Validationf("at least one photo is required")
	}

	p := &Product{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
		Colors:      in.Colors,
		Sizes:       in.Sizes,
		Photos:      s.uploadAll(ctx, photos),
		CreatedAt:   time.Now(),
	}
	if err := s.store.Insert(ctx, p); err != nil {
		s.discardRefs(ctx, p.Photos)
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.store.Get(ctx, id)
}

// Update replaces only the supplied fields. New photos, if any, replace the
// whole photo list; the old photos are not cleaned up here, only on delete.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, photos []media.Staged) (*Product, error) {
	set := bson.M{}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validationf("name cannot be empty")
		}
		set["name"] = *in.Name
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, apperr.Validationf("price must be greater than zero")
		}
		set["price"] = *in.Price
	}
	if in.Category != nil {
		set["category"] = *in.Category
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Colors != nil {
		set["colors"] = in.Colors
	}
	if in.Sizes != nil {
		set["sizes"] = in.Sizes
	}
	var newPhotos []media.Ref
	if len(photos) > 0 {
		newPhotos = s.uploadAll(ctx, photos)
		set["photos"] = newPhotos
	}
	if len(set) == 0 {
		return s.store.Get(ctx, id)
	}
	p, err := s.store.Update(ctx, id, set)
	if err != nil {
		s.discardRefs(ctx, newPhotos)
		return nil, err
	}
	return p, nil
}

// Delete removes the product and best-effort deletes each photo from
// wherever it lives. A failing photo delete never blocks the removal.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	for _, ref := range p.Photos {
		if err := media.Discard(ctx, s.media, ref); err != nil {
			log.Printf("product %s: discard photo %s: %v", id, ref.URL, err)
		}
	}
	return nil
}

// discardRefs best-effort removes uploads that lost their record, so a
// failed insert or update does not orphan fresh copies on the media host.
func (s *Service) discardRefs(ctx context.Context, refs []media.Ref) {
	for _, ref := range refs {
		if err := media.Discard(ctx, s.media, ref); err != nil {
			log.Printf("discard orphaned media %s: %v", ref.URL, err)
		}
	}
}

func (s *Service) uploadAll(ctx context.Context, photos []media.Staged) []media.Ref {
	refs := make([]media.Ref, 0, len(photos))
	for _, st := range photos {
		url, err := s.media.Upload(ctx, st.Path, st.Kind)
		if err != nil {
			log.Printf("photo upload failed, keeping local copy %s: %v", st.Path, err)
			refs = append(refs, media.LocalRef(st.Path))
			continue
		}
		refs = append(refs, media.RemoteRef(url))
		// staged copy is redundant once hosted
		if err := os.Remove(st.Path); err != nil {
			log.Printf("remove staged file %s: %v", st.Path, err)
		}
	}
	return refs
}

package hero

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
	Insert(ctx context.Context, c *Content) error
	ListActive(ctx context.Context) ([]Content, error)
	List(ctx context.Context) ([]Content, error)
	Get(ctx context.Context, id string) (*Content, error)
	Update(ctx context.Context, id string, set bson.M) (*Content, error)
	Delete(ctx context.Context, id string) error
}

type Input struct {
	Title      string
	Subtitle   string
	ButtonText string
	Theme      string
	Order      int
	MediaType  media.Kind // optional; inferred from the file when empty
	IsActive   bool
}

type UpdateInput struct {
	Title      *string
	Subtitle   *string
	ButtonText *string
	Theme      *string
	Order      *int
	IsActive   *bool
	MediaType  media.Kind
}

type Service struct {
	store Store
	media media.Store
}

func NewService(store Store, m media.Store) *Service {
	return &Service{store: store, media: m}
}

// Create requires title, subtitle and exactly one media file. The kind is
// taken from in.MediaType when set, otherwise inferred from the file; a file
// that is neither image nor video is rejected as a client error.
func (s *Service) Create(ctx context.Context, in Input, file *media.Staged) (*Content, error) {
	if in.Title == "" || in.Subtitle == "" {
		return nil, apperr.Validationf("title and subtitle are required")
	}
	if file == nil {
		return nil, apperr.Validationf("a media file is required")
	}
	kind := in.MediaType
	if kind == "" {
		kind = file.Kind
	}
	if !kind.Valid() {
		return nil, apperr.Validationf("media must be an image or a video")
	}

	now := time.Now()
	c := &Content{
		Title:      in.Title,
		Subtitle:   in.Subtitle,
		ButtonText: in.ButtonText,
		Theme:      in.Theme,
		Order:      in.Order,
		MediaType:  kind,
		Media:      s.upload(ctx, file.Path, kind),
		IsActive:   in.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, c); err != nil {
		s.discardRef(ctx, c.Media)
		return nil, err
	}
	return c, nil
}

func (s *Service) ListActive(ctx context.Context) ([]Content, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) List(ctx context.Context) ([]Content, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Content, error) {
	return s.store.Get(ctx, id)
}

// Update replaces only supplied fields. When a new media file comes in, the
// new upload happens first and the old remote media is discarded after, so
// a failed upload never loses the old reference. Both may briefly coexist.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, file *media.Staged) (*Content, error) {
	prev, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now()}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Subtitle != nil {
		set["subtitle"] = *in.Subtitle
	}
	if in.ButtonText != nil {
		set["buttonText"] = *in.ButtonText
	}
	if in.Theme != nil {
		set["theme"] = *in.Theme
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}

	var newRef media.Ref
	if file != nil {
		kind := in.MediaType
		if kind == "" {
			kind = file.Kind
		}
		if !kind.Valid() {
			return nil, apperr.Validationf("media must be an image or a video")
		}
		newRef = s.upload(ctx, file.Path, kind)
		set["media"] = newRef
		set["mediaType"] = kind
	}

	updated, err := s.store.Update(ctx, id, set)
	if err != nil {
		if file != nil {
			s.discardRef(ctx, newRef)
		}
		return nil, err
	}
	if file != nil {
		if err := media.Discard(ctx, s.media, prev.Media); err != nil {
			log.Printf("hero %s: discard old media %s: %v", id, prev.Media.URL, err)
		}
	}
	return updated, nil
}

// Delete removes the record and best-effort discards its media.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := media.Discard(ctx, s.media, c.Media); err != nil {
		log.Printf("hero %s: discard media %s: %v", id, c.Media.URL, err)
	}
	return nil
}

// discardRef best-effort removes an upload that lost its record, so a
// failed insert or update does not orphan a fresh copy on the media host.
func (s *Service) discardRef(ctx context.Context, ref media.Ref) {
	if err := media.Discard(ctx, s.media, ref); err != nil {
		log.Printf("discard orphaned media %s: %v", ref.URL, err)
	}
}

func (s *Service) upload(ctx context.Context, path string, kind media.Kind) media.Ref {
	url, err := s.media.Upload(ctx, path, kind)
	if err != nil {
		log.Printf("media upload failed, keeping local copy %s: %v", path, err)
		return media.LocalRef(path)
	}
	if err := os.Remove(path); err != nil {
		log.Printf("remove staged file %s: %v", path, err)
	}
	return media.RemoteRef(url)
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dzcommerce/storefront-api/internal/apperr"
	"github.com/dzcommerce/storefront-api/internal/media"
)

type memStore struct {
	items     map[string]*Product
	insertErr error
	updateErr error
}

func newMemStore() *memStore { return &memStore{items: map[string]*Product{}} }

func (m *memStore) Insert(_ context.Context, p *Product) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	m.items[p.ID.Hex()] = &cp
	return nil
}

func (m *memStore) List(_ context.Context) ([]Product, error) {
	out := make([]Product, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (*Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) Update(_ context.Context, id string, set bson.M) (*Product, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	p, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	for k, v := range set {
		switch k {
		case "name":
			p.Name = v.(string)
		case "price":
			p.Price = v.(float64)
		case "category":
			p.Category = v.(string)
		case "description":
			p.Description = v.(string)
		case "colors":
			p.Colors = v.([]string)
		case "sizes":
			p.Sizes = v.([]string)
		case "photos":
			p.Photos = v.([]media.Ref)
		}
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

type fakeMedia struct {
	failPaths map[string]bool
	deleted   []string
	deleteErr error
}

func (f *fakeMedia) Upload(_ context.Context, path string, _ media.Kind) (string, error) {
	if f.failPaths[path] {
		return "", errors.New("media host unreachable")
	}
	return "https://cdn.test/" + filepath.Base(path), nil
}

func (f *fakeMedia) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return f.deleteErr
}

func stageFile(t *testing.T, dir, name string) media.Staged {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("bytes"), 0o644))
	return media.Staged{Path: path, Kind: media.KindImage}
}

func validInput() Input {
	return Input{Name: "Kabyle dress", Price: 7900, Category: "dresses", Colors: []string{"red"}, Sizes: []string{"M"}}
}

func TestCreateRequiresPhotos(t *testing.T) {
	svc := NewService(newMemStore(), &fakeMedia{})

	_, err := svc.Create(context.Background(), validInput(), nil)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateRequiredFields(t *testing.T) {
	svc := NewService(newMemStore(), &fakeMedia{})
	dir := t.TempDir()
	photos := []media.Staged{stageFile(t, dir, "a.jpg")}

	in := validInput()
	in.Name = ""
	_, err := svc.Create(context.Background(), in, photos)
	assert.True(t, apperr.IsValidation(err))

	in = validInput()
	in.Price = 0
	_, err = svc.Create(context.Background(), in, photos)
	assert.True(t, apperr.IsValidation(err))

	in = validInput()
	in.Category = ""
	_, err = svc.Create(context.Background(), in, photos)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreateMixedUploadFallback(t *testing.T) {
	dir := t.TempDir()
	ok := stageFile(t, dir, "ok.jpg")
	bad := stageFile(t, dir, "bad.jpg")

	store := newMemStore()
	svc := NewService(store, &fakeMedia{failPaths: map[string]bool{bad.Path: true}})

	p, err := svc.Create(context.Background(), validInput(), []media.Staged{ok, bad})
	require.NoError(t, err)
	require.Len(t, p.Photos, 2)

	assert.False(t, p.Photos[0].Local)
	assert.Equal(t, "https://cdn.test/ok.jpg", p.Photos[0].URL)

	assert.True(t, p.Photos[1].Local, "failed upload degrades to the staged copy")
	assert.Equal(t, bad.Path, p.Photos[1].URL)

	// staged copy is gone once hosted remotely, kept for the fallback
	_, err = os.Stat(ok.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(bad.Path)
	assert.NoError(t, err)

	assert.WithinDuration(t, time.Now(), p.CreatedAt, time.Minute)
}

func TestUpdateTouchesOnlySuppliedFields(t *testing.T) {
	dir := t.TempDir()
	store := newMemStore()
	svc := NewService(store, &fakeMedia{})

	p, err := svc.Create(context.Background(), validInput(), []media.Staged{stageFile(t, dir, "a.jpg")})
	require.NoError(t, err)

	name := "Kabyle dress v2"
	updated, err := svc.Update(context.Background(), p.ID.Hex(), UpdateInput{Name: &name}, nil)
	require.NoError(t, err)

	assert.Equal(t, name, updated.Name)
	assert.Equal(t, p.Price, updated.Price)
	assert.Equal(t, p.Photos, updated.Photos, "photos untouched when none supplied")
}

func TestUpdateReplacesPhotoList(t *testing.T) {
	dir := t.TempDir()
	store := newMemStore()
	svc := NewService(store, &fakeMedia{})

	p, err := svc.Create(context.Background(), validInput(), []media.Staged{stageFile(t, dir, "a.jpg")})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), p.ID.Hex(), UpdateInput{},
		[]media.Staged{stageFile(t, dir, "b.jpg"), stageFile(t, dir, "c.jpg")})
	require.NoError(t, err)

	require.Len(t, updated.Photos, 2)
	assert.Equal(t, "https://cdn.test/b.jpg", updated.Photos[0].URL)
}

func TestDeleteIsBestEffortOnMedia(t *testing.T) {
	dir := t.TempDir()
	store := newMemStore()
	mediaStore := &fakeMedia{deleteErr: errors.New("media host unreachable")}
	svc := NewService(store, mediaStore)

	p, err := svc.Create(context.Background(), validInput(), []media.Staged{stageFile(t, dir, "a.jpg")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p.ID.Hex()), "failed media delete must not block removal")

	_, err = svc.Get(context.Background(), p.ID.Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, []string{"https://cdn.test/a.jpg"}, mediaStore.deleted)
}

func TestCreatePersistFailureDiscardsUploads(t *testing.T) {
	dir := t.TempDir()
	ok := stageFile(t, dir, "ok.jpg")
	bad := stageFile(t, dir, "bad.jpg")

	store := newMemStore()
	store.insertErr = errors.New("write failed")
	mediaStore := &fakeMedia{failPaths: map[string]bool{bad.Path: true}}
	svc := NewService(store, mediaStore)

	_, err := svc.Create(context.Background(), validInput(), []media.Staged{ok, bad})
	require.Error(t, err)

	assert.Equal(t, []string{"https://cdn.test/ok.jpg"}, mediaStore.deleted, "remote upload must not be orphaned")
	_, statErr := os.Stat(bad.Path)
	assert.True(t, os.IsNotExist(statErr), "local fallback copy must not be orphaned")
}

func TestUpdatePersistFailureDiscardsUploads(t *testing.T) {
	dir := t.TempDir()
	store := newMemStore()
	mediaStore := &fakeMedia{}
	svc := NewService(store, mediaStore)

	p, err := svc.Create(context.Background(), validInput(), []media.Staged{stageFile(t, dir, "a.jpg")})
	require.NoError(t, err)

	store.updateErr = errors.New("write failed")
	_, err = svc.Update(context.Background(), p.ID.Hex(), UpdateInput{}, []media.Staged{stageFile(t, dir, "b.jpg")})
	require.Error(t, err)
	assert.Equal(t, []string{"https://cdn.test/b.jpg"}, mediaStore.deleted, "replacement upload must not be orphaned")
}

func TestDeleteMissingProduct(t *testing.T) {
	svc := NewService(newMemStore(), &fakeMedia{})
	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

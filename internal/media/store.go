package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Store is the remote media host. Upload returns the hosted content URL.
// Delete is best-effort; callers log failures instead of propagating them.
type Store interface {
	Upload(ctx context.Context, localPath string, kind Kind) (string, error)
	Delete(ctx context.Context, remoteURL string) error
}

// HostedStore talks to the media host over HTTP: POST /upload with a
// multipart file, DELETE /media with the content URL.
type HostedStore struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHostedStore(baseURL, apiKey string) *HostedStore {
	return &HostedStore{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *HostedStore) Upload(ctx context.Context, localPath string, kind Kind) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.WriteField("kind", string(kind)); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload: media host returned %d", resp.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("upload: decode response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload: media host returned no url")
	}
	return out.URL, nil
}

func (s *HostedStore) Delete(ctx context.Context, remoteURL string) error {
	u := s.BaseURL + "/media?" + url.Values{"url": {remoteURL}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete: media host returned %d", resp.StatusCode)
	}
	return nil
}

// Discard removes the object behind ref from wherever it lives: remote refs
// go through the store, local refs come off the disk.
func Discard(ctx context.Context, s Store, ref Ref) error {
	if ref.Local {
		return os.Remove(ref.URL)
	}
	return s.Delete(ctx, ref.URL)
}

package httpx

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dzcommerce/storefront-api/internal/apperr"
	"github.com/dzcommerce/storefront-api/internal/media"
)

const (
	maxFileSize    = 50 << 20 // per file
	maxUploadFiles = 10       // per request

	multipartMemory = 32 << 20
)

// stageUploads parks the request's files for field under dir and returns
// their refs. Constraint violations (size, count, content type) come back as
// validation errors with nothing left on disk.
func stageUploads(r *http.Request, dir, field string, maxFiles int) ([]media.Staged, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, apperr.Validationf("invalid multipart form")
	}
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxFiles {
		return nil, apperr.Validationf("too many files: at most %d per request", maxFiles)
	}

	staged := make([]media.Staged, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxFileSize {
			discardStaged(staged)
			return nil, apperr.Validationf("file %s exceeds the 50 MB limit", fh.Filename)
		}
		kind, ok := media.KindFromContentType(fh.Header.Get("Content-Type"))
		if !ok {
			discardStaged(staged)
			return nil, apperr.Validationf("file %s: only image and video uploads are accepted", fh.Filename)
		}
		path, err := saveStaged(dir, fh)
		if err != nil {
			discardStaged(staged)
			return nil, err
		}
		staged = append(staged, media.Staged{Path: path, Kind: kind})
	}
	return staged, nil
}

func saveStaged(dir string, fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, uuid.NewString()+filepath.Ext(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func discardStaged(staged []media.Staged) {
	for _, s := range staged {
		_ = os.Remove(s.Path)
	}
}

package media

import "strings"

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

func (k Kind) Valid() bool { return k == KindImage || k == KindVideo }

// KindFromContentType infers the media kind from a MIME type. Only image/*
// and video/* are accepted.
func KindFromContentType(ct string) (Kind, bool) {
	switch {
	case strings.HasPrefix(ct, "image/"):
		return KindImage, true
	case strings.HasPrefix(ct, "video/"):
		return KindVideo, true
	}
	return "", false
}

// Ref points at a stored media object. A remote ref lives on the media host;
// a local ref is the staged copy kept when the remote upload failed. Callers
// can tell the two apart and reconcile later.
type Ref struct {
	URL   string `bson:"url" json:"url"`
	Local bool   `bson:"local" json:"local"`
}

func RemoteRef(url string) Ref { return Ref{URL: url} }
func LocalRef(path string) Ref { return Ref{URL: path, Local: true} }

// Staged is an uploaded file parked on disk by the HTTP layer, waiting for a
// service to push it to the media host.
type Staged struct {
	Path string
	Kind Kind
}

package assets

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flaboy/aira-catalog/pkg/catalog"
	"github.com/flaboy/aira-catalog/pkg/errors"
	"github.com/flaboy/aira-catalog/pkg/stripe"
)

// Store moves image bytes between the local image directory and the
// remote service: Download on export, Publish on import.
type Store struct {
	Dir string

	stripe *stripe.Client
	http   *http.Client
}

func NewStore(dir string, client *stripe.Client) *Store {
	return &Store{
		Dir:    dir,
		stripe: client,
		// 图片下载可能较慢，超时放宽
		http: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   60 * time.Second,
				ResponseHeaderTimeout: 60 * time.Second,
				MaxIdleConnsPerHost:   10,
			},
		},
	}
}

// Download streams the remote image into the image directory and returns
// the local filename, derived from the sanitized code (or a timestamp
// when the code is empty) plus the extension found in the URL. On any
// failure the partially written file is removed.
func (s *Store) Download(imageURL, code string) (string, error) {
	filename := catalog.ImageBaseName(code) + "." + catalog.ImageExtension(imageURL)
	target := filepath.Join(s.Dir, filename)

	resp, err := s.http.Get(imageURL)
	if err != nil {
		return "", errors.Wrap(errors.ImageDownloadFailed, err, "fetch "+imageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Newf(errors.ImageDownloadFailed,
			"fetch %s: status %d", imageURL, resp.StatusCode)
	}

	out, err := os.Create(target)
	if err != nil {
		return "", errors.Wrap(errors.ImageDownloadFailed, err, "create "+target)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(target)
		return "", errors.Wrap(errors.ImageDownloadFailed, err, "stream "+imageURL)
	}
	if err := out.Close(); err != nil {
		os.Remove(target)
		return "", errors.Wrap(errors.ImageDownloadFailed, err, "close "+target)
	}
	return filename, nil
}

// Publish uploads the named local image and turns it into a publicly
// resolvable URL via a file link. Missing or empty files are rejected
// before any network call.
func (s *Store) Publish(filename string) (string, error) {
	path := filepath.Join(s.Dir, filename)

	st, err := os.Stat(path)
	if err != nil {
		return "", errors.Wrap(errors.ImageMissing, err, "image not found: "+filename)
	}
	if st.Size() == 0 {
		return "", errors.Newf(errors.ImageMissing, "image is empty: %s", filename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ImageMissing, err, "read "+filename)
	}

	file, err := s.stripe.UploadFile(data, filename, mimeTypeFor(filename), "product_image")
	if err != nil {
		return "", err
	}

	link, err := s.stripe.CreateFileLink(file.ID)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

func mimeTypeFor(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

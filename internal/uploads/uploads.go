package uploads

import (
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/petcarehub/petcare-api/internal/logger"
)

// lostPetsSubdir is where listing images land inside the public root.
const lostPetsSubdir = "uploads/lostpets"

// publicImagesSubdir holds the site images listed by the assets endpoint.
const publicImagesSubdir = "images"

var allowedImageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".webp": {}, ".gif": {}, ".svg": {},
}

// ImageStore writes uploaded images under the public static root and
// lists the images already published there.
type ImageStore struct {
	root string
}

// New creates an ImageStore rooted at the public static directory.
func New(root string) *ImageStore {
	return &ImageStore{root: root}
}

// SaveLostPetImage writes one uploaded file in full under the lost-pets
// uploads directory, using an unpredictable name that preserves the original
// extension. Returns the relative URL path recorded against the listing.
func (s *ImageStore) SaveLostPetImage(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(fh.Filename)
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	dir := filepath.Join(s.root, filepath.FromSlash(lostPetsSubdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)

	logger.Log.Infow("image saved",
		"original", fh.Filename,
		"name", name,
		"bytes", written,
		"error", err,
	)

	if err != nil {
		return "", err
	}

	return "/" + lostPetsSubdir + "/" + name, nil
}

// PublicImage describes one file under the public images directory.
type PublicImage struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// ListPublicImages walks the public images directory and returns every image
// file with its relative path and an absolute URL resolved against baseURL.
// Returns an empty slice when the directory does not exist.
func (s *ImageStore) ListPublicImages(baseURL string) ([]PublicImage, error) {
	imagesRoot := filepath.Join(s.root, publicImagesSubdir)

	images := []PublicImage{}
	if _, err := os.Stat(imagesRoot); os.IsNotExist(err) {
		return images, nil
	}

	err := filepath.WalkDir(imagesRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := allowedImageExts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		images = append(images, PublicImage{
			Name: filepath.Base(path),
			Path: "/" + rel,
			URL:  strings.TrimRight(baseURL, "/") + "/" + rel,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })

	return images, nil
}

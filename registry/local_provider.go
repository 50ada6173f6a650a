package registry

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
)

// LocalProvider resolves image references as paths relative to Root on
// the local filesystem (preloader.py: get_image_path's local-path
// branch; the URL-download branch is out of scope here).
type LocalProvider struct {
	Root string
}

// Open decodes the image at filepath.Join(p.Root, imageRef).
func (p LocalProvider) Open(imageRef string) (image.Image, error) {
	path := imageRef
	if p.Root != "" && !filepath.IsAbs(imageRef) {
		path = filepath.Join(p.Root, imageRef)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("registry: opening %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("registry: decoding %q: %w", path, err)
	}
	return img, nil
}

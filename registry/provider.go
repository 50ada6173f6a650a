// Package registry resolves declarative texture/object descriptors into
// concrete, tileset-addressed textures and packs the dynamic tileset
// image, reproducing original_source/tiled_master/framework/preloader.py
// (spec.md §4.9, §5).
package registry

import "image"

// Provider resolves a descriptor's image reference to a decoded image.
// The only shipped implementation, LocalProvider, treats the reference
// as a path on disk; a future provider could fetch remote URLs into a
// local cache without changing anything else in this package (asset
// acquisition itself is out of scope here, per spec.md's Non-goals).
type Provider interface {
	Open(imageRef string) (image.Image, error)
}

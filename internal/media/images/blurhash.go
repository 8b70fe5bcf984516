package images

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
)

// blurHashSize is the longest side of the thumbnail hashed for placeholders.
// BlurHash is a low-resolution placeholder, so a small input gives nearly the same result.
const blurHashSize = 64

// ComputeBlurHash generates a BlurHash string for img.
// Uses 4x3 components, which keeps the hash around 20-30 characters.
func ComputeBlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, Thumbnail(img, blurHashSize))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

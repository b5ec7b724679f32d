package cloudinary

import (
	"github.com/cloudinary/cloudinary-go/v2"
)

// New builds a client from the given URL, falling back to the
// CLOUDINARY_URL environment variable when empty.
func New(url string) (*cloudinary.Cloudinary, error) {
	if url != "" {
		return cloudinary.NewFromURL(url)
	}
	return cloudinary.New()
}

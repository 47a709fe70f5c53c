package usecase

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/cp25sy5-modjot/native-bridge/internal/domain"
)

// loadImage reads path and decodes it fully, so a truncated or unsupported
// file is rejected before any engine sees it.
func loadImage(path string) (domain.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.Image{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return domain.Image{
		Path:    path,
		Format:  format,
		Data:    data,
		Bounds:  img.Bounds(),
		Decoded: img,
	}, nil
}

package rod

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// downscale resizes a capture to maxWidth, keeping the aspect ratio, and
// re-encodes it in the requested format. Captures already narrow enough are
// returned unchanged.
func downscale(data []byte, maxWidth int, asJPEG bool, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() <= maxWidth {
		return data, nil
	}

	img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if asJPEG {
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("jpeg encode failed: %w", err)
		}
	} else {
		if err := png.Encode(buf, img); err != nil {
			return nil, fmt.Errorf("png encode failed: %w", err)
		}
	}
	return buf.Bytes(), nil
}

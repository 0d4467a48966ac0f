package folio

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"golang.org/x/image/draw"
)

func isRasterImage(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// downscale returns data resized to the configured maximum width, or data
// unchanged when the image already fits or cannot be decoded.
func (r *run) downscale(rel string, data []byte) []byte {
	out, resized, err := processImage(data, r.b.Config.Images.MaxWidth, r.b.Config.Images.Quality)
	if err != nil {
		r.log.WithError(err).WithField("file", rel).Warn("could not resize image, copying as is")
		return data
	}
	if resized {
		r.log.WithField("file", rel).Debug("resized image")
	}
	return out
}

// processImage decodes an image, resizes it to maxWidth if it is wider, and
// re-encodes it in its original format. JPEGs use quality.
func processImage(data []byte, maxWidth, quality int) ([]byte, bool, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxWidth {
		return data, false, nil
	}

	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality})
	case "png":
		err = png.Encode(&buf, dst)
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		return data, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), true, nil
}

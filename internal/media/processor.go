// Package media validates and normalises uploaded images, videos and notice
// documents. Everything arrives as base64 (optionally a data URL) and leaves
// as a data URL or raw base64 ready for storage.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

const (
	MaxImageBytes    = 10 << 20
	MaxVideoBytes    = 50 << 20
	MaxDocumentBytes = 10 << 20

	MaxWidth    = 1920
	MaxHeight   = 1080
	JPEGQuality = 85
)

var (
	imageMIMEs = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	videoMIMEs = []string{"video/mp4", "video/webm", "video/quicktime"}
)

// Decode strips an optional data URL prefix and decodes the base64 payload.
// Standard and URL-safe alphabets are accepted, padded or not.
func Decode(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if strings.HasPrefix(data, "data:") {
		idx := strings.Index(data, ",")
		if idx < 0 {
			return nil, fmt.Errorf("%w: malformed data URL", utils.ErrUnsupportedMediaType)
		}
		data = data[idx+1:]
	}
	if data == "" {
		return nil, fmt.Errorf("%w: empty payload", utils.ErrUnsupportedMediaType)
	}
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding,
	} {
		if raw, err := enc.DecodeString(data); err == nil {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("%w: payload is not valid base64", utils.ErrUnsupportedMediaType)
}

// DataURL renders raw bytes as a data URL.
func DataURL(mimeType string, raw []byte) string {
	return "data:" + mimeType + ";base64," + encodeStd(raw)
}

func encodeStd(raw []byte) string { return base64.StdEncoding.EncodeToString(raw) }

// Process handles one property media upload. Images are recompressed,
// videos are checked and stored as sent.
func Process(mediaType models.MediaType, data string) (string, error) {
	switch mediaType {
	case models.MediaImage:
		return ProcessImage(data)
	case models.MediaVideo:
		return ProcessVideo(data)
	default:
		return "", fmt.Errorf("%w: media_type %q", utils.ErrUnsupportedMediaType, mediaType)
	}
}

// ProcessImage decodes the image, downsizes it to fit MaxWidth x MaxHeight
// and re-encodes it as JPEG.
func ProcessImage(data string) (string, error) {
	raw, err := Decode(data)
	if err != nil {
		return "", err
	}
	if len(raw) > MaxImageBytes {
		return "", fmt.Errorf("%w: image exceeds %d MB", utils.ErrFileTooLarge, MaxImageBytes>>20)
	}
	mt := mimetype.Detect(raw)
	if !mimetype.EqualsAny(mt.String(), imageMIMEs...) {
		return "", fmt.Errorf("%w: %s is not a supported image", utils.ErrUnsupportedMediaType, mt.String())
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: decode image: %v", utils.ErrUnsupportedMediaType, err)
	}

	out, err := compress(src)
	if err != nil {
		return "", err
	}
	return DataURL("image/jpeg", out), nil
}

// ProcessVideo validates size and container type without transcoding.
func ProcessVideo(data string) (string, error) {
	raw, err := Decode(data)
	if err != nil {
		return "", err
	}
	if len(raw) > MaxVideoBytes {
		return "", fmt.Errorf("%w: video exceeds %d MB", utils.ErrFileTooLarge, MaxVideoBytes>>20)
	}
	mt := mimetype.Detect(raw)
	for _, allowed := range videoMIMEs {
		if mt.Is(allowed) {
			return DataURL(allowed, raw), nil
		}
	}
	return "", fmt.Errorf("%w: %s is not a supported video", utils.ErrUnsupportedMediaType, mt.String())
}

// fitWithin scales (w, h) down to fit the box, keeping the aspect ratio.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}
	nw, nh := int(float64(w)*ratio), int(float64(h)*ratio)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

func compress(src image.Image) ([]byte, error) {
	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), MaxWidth, MaxHeight)

	// JPEG has no alpha; flatten onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

package rendering

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"math"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WEBP decoder

	"github.com/jonathan/resume-studio/internal/store"
	"github.com/jonathan/resume-studio/internal/types"
)

// Avatar crop geometry, in pixels
const (
	ViewportSize = 256
	OutputSize   = 400
	MaxZoom      = 4.0
	avatarJPEG   = 90
)

// Crop positions a source image inside the square viewport. At zoom 1 the
// image just covers the viewport; offsets move the image center away from
// the viewport center, in viewport pixels.
type Crop struct {
	Zoom    float64 `json:"zoom"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// CropAvatar rasterizes exactly the region visible in the viewport into an
// OutputSize square JPEG and returns it as a data URL. src may be raw image
// bytes or a base64 data URL.
func CropAvatar(src []byte, crop Crop) (string, error) {
	img, err := decodeImage(src)
	if err != nil {
		return "", err
	}
	if crop.Zoom == 0 {
		crop.Zoom = 1
	}
	if math.IsNaN(crop.Zoom) || crop.Zoom < 1 || crop.Zoom > MaxZoom {
		return "", &CropError{Message: "zoom must be between 1 and 4"}
	}

	dst := image.NewRGBA(image.Rect(0, 0, OutputSize, OutputSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, visibleRegion(img.Bounds(), crop), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: avatarJPEG}); err != nil {
		return "", &CropError{Message: "failed to encode avatar", Cause: err}
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ApplyAvatar crops src and stores the result as the profile avatar in a
// single write
func ApplyAvatar(s *store.Store, src []byte, crop Crop) (string, error) {
	avatar, err := CropAvatar(src, crop)
	if err != nil {
		return "", err
	}
	_, err = s.Update(store.SectionProfile, func(doc *types.ResumeDocument) (bool, error) {
		return assign(&doc.Profile.Avatar, avatar), nil
	})
	return avatar, err
}

// ClearAvatar removes the profile avatar. It reports whether one was set.
func ClearAvatar(s *store.Store) (bool, error) {
	return s.Update(store.SectionProfile, func(doc *types.ResumeDocument) (bool, error) {
		return assign(&doc.Profile.Avatar, ""), nil
	})
}

// visibleRegion maps the viewport back onto source pixels. Offsets are
// clamped so the image always covers the viewport.
func visibleRegion(bounds image.Rectangle, crop Crop) image.Rectangle {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	scale := ViewportSize / math.Min(w, h) * crop.Zoom

	maxX := (w*scale - ViewportSize) / 2
	maxY := (h*scale - ViewportSize) / 2
	offX := clamp(crop.OffsetX, -maxX, maxX)
	offY := clamp(crop.OffsetY, -maxY, maxY)

	side := ViewportSize / scale
	cx := w/2 - offX/scale
	cy := h/2 - offY/scale

	r := image.Rect(
		int(math.Round(cx-side/2)), int(math.Round(cy-side/2)),
		int(math.Round(cx+side/2)), int(math.Round(cy+side/2)),
	).Add(bounds.Min)
	return r.Intersect(bounds)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

func decodeImage(src []byte) (image.Image, error) {
	if len(src) == 0 {
		return nil, &CropError{Message: "no image supplied"}
	}
	if bytes.HasPrefix(src, []byte("data:")) {
		data, err := decodeDataURL(string(src))
		if err != nil {
			return nil, err
		}
		src = data
	}
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, &CropError{Message: "unsupported image", Cause: err}
	}
	if img.Bounds().Empty() {
		return nil, &CropError{Message: "image has no pixels"}
	}
	return img, nil
}

func decodeDataURL(s string) ([]byte, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, &CropError{Message: "expected a base64 data URL"}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &CropError{Message: "invalid base64 image data", Cause: err}
	}
	return data, nil
}

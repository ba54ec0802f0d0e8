package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"unicode"

	"github.com/apex/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const (
	defaultQuality    = 85
	decodeConcurrency = 4
)

var (
	ErrInvalidBase64    = errors.New("invalid base64 image payload")
	ErrUnsupportedImage = errors.New("unsupported or corrupt image data")
)

// Options controls optional normalization of decoded images.
type Options struct {
	// MaxDimension bounds width and height; 0 disables resizing.
	MaxDimension int
	// Quality is the JPEG quality used when an image is re-encoded.
	Quality int
}

// Image is a decoded, validated image ready to be sent inline to a provider.
type Image struct {
	Data     []byte
	MIMEType string
	Format   string
	Width    int
	Height   int
}

// providerFormats are forwarded as received; anything else is re-encoded as PNG.
var providerFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"webp": true,
}

// Result is the outcome of decoding one item of a batch.
type Result struct {
	Image *Image
	Err   error
}

// StripDataURLPrefix drops a "data:<mime>;base64," style header, i.e.
// everything up to and including the first comma.
func StripDataURLPrefix(s string) string {
	if _, payload, found := strings.Cut(s, ","); found {
		return payload
	}
	return s
}

// Decode turns a base64 payload, optionally data-URL prefixed, into an Image.
func Decode(encoded string, opts Options) (*Image, error) {
	data, err := decodeBase64(StripDataURLPrefix(encoded))
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	out := &Image{
		Data:     data,
		MIMEType: mimetype.Detect(data).String(),
		Format:   format,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}

	orientation := 1
	if opts.MaxDimension > 0 && format == "jpeg" {
		orientation = Orientation(data)
	}
	oversized := opts.MaxDimension > 0 && (out.Width > opts.MaxDimension || out.Height > opts.MaxDimension)
	if orientation == 1 && !oversized {
		if providerFormats[format] {
			return out, nil
		}
		return toPNG(img, out)
	}

	normalized := Resize(Orient(img, orientation), opts.MaxDimension)
	quality := opts.Quality
	if quality <= 0 {
		quality = defaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, normalized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode normalized image: %w", err)
	}

	nb := normalized.Bounds()
	log.WithFields(log.Fields{
		"orientation": orientation,
		"original":    fmt.Sprintf("%dx%d", out.Width, out.Height),
		"resized":     fmt.Sprintf("%dx%d", nb.Dx(), nb.Dy()),
		"bytes_in":    len(data),
		"bytes_out":   buf.Len(),
	}).Debug("image.normalized")

	return &Image{
		Data:     buf.Bytes(),
		MIMEType: "image/jpeg",
		Format:   "jpeg",
		Width:    nb.Dx(),
		Height:   nb.Dy(),
	}, nil
}

func toPNG(img image.Image, out *Image) (*Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode %s image as png: %w", out.Format, err)
	}

	log.WithFields(log.Fields{
		"format":    out.Format,
		"bytes_in":  len(out.Data),
		"bytes_out": buf.Len(),
	}).Debug("image.converted")

	return &Image{
		Data:     buf.Bytes(),
		MIMEType: "image/png",
		Format:   "png",
		Width:    out.Width,
		Height:   out.Height,
	}, nil
}

// DecodeAll decodes a batch concurrently. Results keep the input order and
// carry a per-item error; one bad item never affects the others.
func DecodeAll(ctx context.Context, encoded []string, opts Options) []Result {
	results := make([]Result, len(encoded))

	var g errgroup.Group
	g.SetLimit(decodeConcurrency)
	for i, s := range encoded {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Err: err}
				return nil
			}
			img, err := Decode(s, opts)
			results[i] = Result{Image: img, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidBase64)
	}

	var firstErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, firstErr)
}

// Orientation returns the EXIF orientation tag of JPEG data, or 1 when absent.
func Orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

// Orient applies an EXIF orientation so the result displays upright.
func Orient(src image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return src
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch orientation {
			case 2: // mirror horizontal
				dx, dy = w-1-x, y
			case 3: // rotate 180
				dx, dy = w-1-x, h-1-y
			case 4: // mirror vertical
				dx, dy = x, h-1-y
			case 5: // transpose
				dx, dy = y, x
			case 6: // rotate 90 clockwise
				dx, dy = h-1-y, x
			case 7: // transverse
				dx, dy = h-1-y, w-1-x
			case 8: // rotate 90 counter-clockwise
				dx, dy = y, w-1-x
			}
			dst.Set(dx, dy, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// Resize scales src to fit within maxDimension, preserving aspect ratio.
// Images already within bounds are returned unchanged.
func Resize(src image.Image, maxDimension int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDimension <= 0 || (w <= maxDimension && h <= maxDimension) {
		return src
	}

	scale := float64(maxDimension) / float64(w)
	if s := float64(maxDimension) / float64(h); s < scale {
		scale = s
	}
	nw := max(1, min(maxDimension, int(float64(w)*scale)))
	nh := max(1, min(maxDimension, int(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

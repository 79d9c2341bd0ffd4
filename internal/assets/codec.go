package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"regexp"
	"strings"

	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultWebPQuality is the quality factor used when none is configured.
	DefaultWebPQuality = 0.8

	OptimizedExtension = "webp"
	defaultExtension   = "png"
	embeddedPrefix     = "data:image"
)

var (
	extensionPattern = regexp.MustCompile(`data:image/([^;]+);`)
	mimePattern      = regexp.MustCompile(`:(.*?);`)
	safeExtension    = regexp.MustCompile(`^[a-z0-9]+$`)
)

var convertibleExtensions = map[string]struct{}{
	"png": {},
	"jpg": {},
}

// Payload is the raw content of an embedded-data reference.
type Payload struct {
	Data []byte
	MIME string
}

// IsEmbedded reports whether ref carries inline image data instead of a URL.
func IsEmbedded(ref string) bool {
	return strings.HasPrefix(ref, embeddedPrefix)
}

// Decode splits a data URI into its MIME type and base64 payload. It reports
// false when the separator or the content type is missing or when the payload
// is not valid base64.
func Decode(uri string) (Payload, bool) {
	header, data, found := strings.Cut(uri, ",")
	if !found {
		return Payload{}, false
	}
	match := mimePattern.FindStringSubmatch(header)
	if match == nil || match[1] == "" {
		return Payload{}, false
	}

	data = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, data)

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		if raw, err = base64.RawStdEncoding.DecodeString(data); err != nil {
			return Payload{}, false
		}
	}
	return Payload{Data: raw, MIME: match[1]}, true
}

// ExtensionOf derives a file extension from the image MIME subtype of uri.
// jpeg becomes jpg and svg+xml becomes svg. Anything unparseable, or not a
// plain alphanumeric subtype, is png.
func ExtensionOf(uri string) string {
	match := extensionPattern.FindStringSubmatch(uri)
	if match == nil {
		return defaultExtension
	}
	ext := strings.ToLower(strings.TrimSpace(match[1]))
	switch ext {
	case "jpeg":
		ext = "jpg"
	case "svg+xml":
		ext = "svg"
	}
	if !safeExtension.MatchString(ext) {
		return defaultExtension
	}
	return ext
}

// IsConvertible reports whether files with extension ext get a WebP sibling.
// Only static raster formats qualify.
func IsConvertible(ext string) bool {
	_, ok := convertibleExtensions[ext]
	return ok
}

// Transcoder re-encodes an embedded image into the optimized format. A false
// result means the optimized variant should be skipped.
type Transcoder interface {
	Transcode(ctx context.Context, uri string, quality float64) ([]byte, bool)
}

// Encoder writes img in the optimized format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality float64) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(w io.Writer, img image.Image, quality float64) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image, quality float64) error {
	return f(w, img, quality)
}

// WebPEncoder encodes lossy WebP through github.com/gen2brain/webp.
func WebPEncoder() Encoder {
	return EncoderFunc(func(w io.Writer, img image.Image, quality float64) error {
		return webp.Encode(w, img, webp.Options{
			Quality: int(math.Round(quality * 100)),
			Method:  4,
		})
	})
}

// Codec decodes embedded references and renders them through an Encoder.
type Codec struct {
	encoder Encoder
}

var _ Transcoder = (*Codec)(nil)

// NewCodec returns a codec using encoder, or WebP when encoder is nil.
func NewCodec(encoder Encoder) *Codec {
	if encoder == nil {
		encoder = WebPEncoder()
	}
	return &Codec{encoder: encoder}
}

// Transcode decodes uri, copies it into an NRGBA canvas at native size and
// re-encodes it. Quality outside (0,1] falls back to DefaultWebPQuality.
func (c *Codec) Transcode(ctx context.Context, uri string, quality float64) ([]byte, bool) {
	out, err := c.transcode(ctx, uri, quality)
	return out, err == nil
}

func (c *Codec) transcode(ctx context.Context, uri string, quality float64) ([]byte, error) {
	if quality <= 0 || quality > 1 {
		quality = DefaultWebPQuality
	}
	payload, ok := Decode(uri)
	if !ok {
		return nil, fmt.Errorf("assets: malformed data uri")
	}
	src, _, err := image.Decode(bytes.NewReader(payload.Data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", payload.MIME, err)
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("assets: empty image")
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Src)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.encoder.Encode(&buf, canvas, quality); err != nil {
		return nil, fmt.Errorf("assets: encode: %w", err)
	}
	return buf.Bytes(), nil
}

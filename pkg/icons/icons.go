// Package icons validates notification icon images and renders them at the
// Android density buckets.
package icons

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"regexp"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Type is the size class of a notification icon.
type Type int

const (
	// Small icons appear in the status bar and are rendered as a white
	// silhouette.
	Small Type = iota
	// Large icons appear in the notification body.
	Large
)

func (t Type) String() string {
	if t == Large {
		return "Large"
	}
	return "Small"
}

// ParseType accepts "small" or "large" in any case.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return Small, nil
	case "large":
		return Large, nil
	default:
		return Small, fmt.Errorf("unknown icon type %q (use small or large)", s)
	}
}

// MarshalJSON writes the type name.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the type name or its numeric value.
func (t *Type) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		if n != int(Small) && n != int(Large) {
			return fmt.Errorf("unknown icon type %d", n)
		}
		*t = Type(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scale is the factor applied to every bucket size.
func (t Type) Scale() float64 {
	if t == Small {
		return 0.375
	}
	return 1
}

// MinSize is the smallest accepted source edge in pixels.
func (t Type) MinSize() int {
	if t == Small {
		return 48
	}
	return 192
}

// Bucket is an Android drawable density bucket.
type Bucket struct {
	Name string
	// Size is the edge length for a Large icon; Small icons are scaled.
	Size int
	// LargeOnly buckets are skipped for Small icons.
	LargeOnly bool
}

// Buckets lists the density buckets in export order.
var Buckets = []Bucket{
	{Name: "xhdpi", Size: 128},
	{Name: "hdpi", Size: 96},
	{Name: "mdpi", Size: 64},
	{Name: "ldpi", Size: 48},
	{Name: "xxhdpi", Size: 192, LargeOnly: true},
}

// OutputPath returns the res-relative path of id in bucket.
func OutputPath(bucket, id string) string {
	return fmt.Sprintf("drawable-%s-v11/%s.png", bucket, id)
}

// resourceName matches the file names Android accepts for drawables.
var resourceName = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidationError lists every reason an icon cannot be exported.
type ValidationError struct {
	ID      string
	Reasons []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("failed exporting %q notification icon because: %s", e.ID, strings.Join(e.Reasons, "; "))
}

// Validate loads the image at path and checks it can be exported as typ.
// On failure the error is a *ValidationError.
func Validate(id, path string, typ Type) (image.Image, error) {
	verr := &ValidationError{ID: id}
	if strings.TrimSpace(id) == "" {
		verr.Reasons = append(verr.Reasons, "identifier is empty")
	} else if !resourceName.MatchString(id) {
		verr.Reasons = append(verr.Reasons, fmt.Sprintf("identifier %q may only contain lowercase letters, digits and underscores", id))
	}
	if path == "" {
		verr.Reasons = append(verr.Reasons, "image is not set")
		return nil, verr
	}

	img, err := Load(path)
	if err != nil {
		verr.Reasons = append(verr.Reasons, err.Error())
		return nil, verr
	}

	b := img.Bounds()
	if b.Dx() != b.Dy() {
		verr.Reasons = append(verr.Reasons, fmt.Sprintf("image must be square (got %dx%d)", b.Dx(), b.Dy()))
	}
	if edge := typ.MinSize(); b.Dx() < edge || b.Dy() < edge {
		verr.Reasons = append(verr.Reasons, fmt.Sprintf("%s icon must be at least %dx%d (got %dx%d)", strings.ToLower(typ.String()), edge, edge, b.Dx(), b.Dy()))
	}
	if len(verr.Reasons) > 0 {
		return nil, verr
	}
	return img, nil
}

// Load decodes a PNG, JPEG, GIF, BMP or WebP file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("image file %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("unsupported image format in %s: %w", path, err)
	}
	return img, nil
}

// Process prepares a source image for its type. Small icons keep their
// alpha channel and have every color channel set to white.
func Process(img image.Image, typ Type) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	if typ != Small {
		return dst
	}
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
		dst.Pix[i+1] = 0xff
		dst.Pix[i+2] = 0xff
	}
	return dst
}

// Resize resamples img to a size×size square with Catmull-Rom.
func Resize(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Render processes img and encodes it at every bucket that applies to typ.
func Render(id string, img image.Image, typ Type) (map[string][]byte, error) {
	src := Process(img, typ)
	out := make(map[string][]byte)
	for _, bucket := range Buckets {
		if bucket.LargeOnly && typ != Large {
			continue
		}
		size := int(float64(bucket.Size) * typ.Scale())

		var buf bytes.Buffer
		if err := png.Encode(&buf, Resize(src, size)); err != nil {
			return nil, fmt.Errorf("failed to encode %s at %s: %w", id, bucket.Name, err)
		}
		out[OutputPath(bucket.Name, id)] = buf.Bytes()
	}
	return out, nil
}

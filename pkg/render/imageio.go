package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/pinhole/pkg/math3d"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned by SaveImage for an unsupported file extension.
var ErrUnknownFormat = errors.New("unknown image format")

// ToImage converts the framebuffer to an image.NRGBA. The image's top row is
// the framebuffer's highest v.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for row := range fb.Height {
		for x := range fb.Width {
			c := fb.Pixels[row*fb.Width+x]
			o := img.PixOffset(x, row)
			img.Pix[o+0] = c.R()
			img.Pix[o+1] = c.G()
			img.Pix[o+2] = c.B()
			img.Pix[o+3] = c.A()
		}
	}
	return img
}

// FromImage resizes the framebuffer to the image and copies its pixels. The
// depth buffer is discarded.
func (fb *Framebuffer) FromImage(img image.Image) {
	b := img.Bounds()
	fb.Resize(b.Dx(), b.Dy())
	for row := range fb.Height {
		for x := range fb.Width {
			fb.SetPixel(x, fb.Height-1-row, math3d.ColorOf(img.At(b.Min.X+x, b.Min.Y+row)))
		}
	}
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return fb.save(path, func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})
}

// SaveTIFF saves the framebuffer as a deflate-compressed TIFF file.
func (fb *Framebuffer) SaveTIFF(path string) error {
	return fb.save(path, func(f *os.File, img image.Image) error {
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	})
}

// SaveBMP saves the framebuffer as a BMP file.
func (fb *Framebuffer) SaveBMP(path string) error {
	return fb.save(path, func(f *os.File, img image.Image) error {
		return bmp.Encode(f, img)
	})
}

// SaveImage picks the encoder from the file extension: .png, .tif/.tiff or
// .bmp.
func (fb *Framebuffer) SaveImage(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return fb.SavePNG(path)
	case ".tif", ".tiff":
		return fb.SaveTIFF(path)
	case ".bmp":
		return fb.SaveBMP(path)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

func (fb *Framebuffer) save(path string, encode func(*os.File, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// LoadImage decodes a PNG, JPEG, TIFF or BMP file into the framebuffer,
// resizing it to the image dimensions.
func (fb *Framebuffer) LoadImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	fb.FromImage(img)
	return nil
}

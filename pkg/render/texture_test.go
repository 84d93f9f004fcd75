package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

func TestWrapTexel(t *testing.T) {
	tests := []struct {
		name string
		x    int
		mode WrapMode
		want int
	}{
		{"repeat negative", -1, WrapRepeat, 3},
		{"repeat past end", 5, WrapRepeat, 1},
		{"mirror first flip", 4, WrapMirror, 3},
		{"mirror second texel", 5, WrapMirror, 2},
		{"mirror negative", -1, WrapMirror, 0},
		{"mirror full period", 8, WrapMirror, 0},
		{"clamp low", -3, WrapClamp, 0},
		{"clamp high", 9, WrapClamp, 3},
		{"inside", 2, WrapClamp, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := wrapTexel(tc.x, 4, tc.mode); got != tc.want {
				t.Errorf("wrapTexel(%d) = %d, want %d", tc.x, got, tc.want)
			}
		})
	}
}

func TestTextureFromImageOrientation(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	tex := TextureFromImage(img)
	if tex.GetPixel(0, 3) != ColorRed {
		t.Errorf("image top-left should be texel (0, 3), got %#08x", uint32(tex.GetPixel(0, 3)))
	}
	if tex.Sample(0.1, 0.9) != ColorRed {
		t.Error("Sample near v=1 should read the image's top row")
	}
	if tex.Sample(0.1, 0.1) == ColorRed {
		t.Error("Sample near v=0 should read the image's bottom row")
	}
}

func TestTextureSampleWrap(t *testing.T) {
	tex := NewGradientTexture(4, 1, ColorBlack, ColorWhite)
	tex.WrapU = WrapRepeat
	if tex.Sample(1.1, 0) != tex.Sample(0.1, 0) {
		t.Error("repeat should tile")
	}
	tex.WrapU = WrapMirror
	if tex.Sample(1.1, 0) != tex.Sample(0.9, 0) {
		t.Error("mirror should reflect")
	}
	tex.WrapU = WrapClamp
	if tex.Sample(5, 0) != ColorWhite || tex.Sample(-5, 0) != ColorBlack {
		t.Error("clamp should hold the edge texels")
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := NewCheckerTexture(2, 2, 1, ColorBlack, ColorWhite)
	tex.FilterMode = FilterBilinear
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp

	c := tex.Sample(0.5, 0.5)
	if c.R() < 100 || c.R() > 155 {
		t.Errorf("center of a 2x2 checker = %#08x, want mid gray", uint32(c))
	}
	if tex.Sample(0.25, 0.25) != ColorBlack {
		t.Errorf("texel center should sample exactly, got %#08x", uint32(tex.Sample(0.25, 0.25)))
	}
}

func TestProjector(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorRed, ColorBlue)
	pr := NewProjector(tex, 1)
	pr.SetDirection(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1))

	q, ok := pr.ProjectPoint(math3d.Zero3())
	if !ok {
		t.Fatal("point in front of projector failed")
	}
	if math.Abs(q.X-2) > 1e-9 || math.Abs(q.Y-2) > 1e-9 {
		t.Errorf("ProjectPoint(origin) = %v, want texture center (2, 2)", q)
	}
	if c, ok := pr.ProjectColor(math3d.Zero3()); !ok || c != tex.GetPixel(2, 2) {
		t.Errorf("ProjectColor(origin) = %#08x, want texel (2, 2)", uint32(c))
	}

	if _, ok := pr.ProjectColor(math3d.V3(0, 0, 9)); ok {
		t.Error("point behind projector should not receive color")
	}
}

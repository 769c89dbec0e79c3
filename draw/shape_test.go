package draw

import (
	"image"
	"image/color"
	"testing"
)

var (
	testOn  = color.RGBA{R: 0xff, A: 0xff}
	testOff = color.RGBA{}
)

func testCount(i *image.RGBA) (n int) {
	b := i.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if i.RGBAAt(x, y) == testOn {
				n++
			}
		}
	}
	return
}

func TestLine(t *testing.T) {
	tests := []struct {
		Name string
		A, B image.Point
		Want int
	}{
		{"point", image.Pt(3, 3), image.Pt(3, 3), 1},
		{"horizontal", image.Pt(0, 2), image.Pt(9, 2), 10},
		{"vertical", image.Pt(4, 9), image.Pt(4, 0), 10},
		{"diagonal", image.Pt(0, 0), image.Pt(9, 9), 10},
		{"anti-diagonal", image.Pt(9, 0), image.Pt(0, 9), 10},
		{"steep", image.Pt(1, 0), image.Pt(3, 9), 10},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			i := image.NewRGBA(image.Rect(0, 0, 10, 10))
			Line(i, test.A, test.B, testOn)
			if v := testCount(i); v != test.Want {
				it.Errorf("expected %d pixels, got %d", test.Want, v)
			}
			if i.RGBAAt(test.A.X, test.A.Y) != testOn || i.RGBAAt(test.B.X, test.B.Y) != testOn {
				it.Errorf("expected end points %s and %s to be set", test.A, test.B)
			}
		})
	}
}

func TestRectangle(t *testing.T) {
	i := image.NewRGBA(image.Rect(0, 0, 10, 10))
	Rectangle(i, image.Rect(2, 2, 6, 5), testOn)
	if v := testCount(i); v != 10 {
		t.Errorf("expected 10 outline pixels, got %d", v)
	}
	for _, p := range []image.Point{{2, 2}, {5, 2}, {2, 4}, {5, 4}} {
		if i.RGBAAt(p.X, p.Y) != testOn {
			t.Errorf("expected corner %s to be set", p)
		}
	}
	if i.RGBAAt(3, 3) != testOff {
		t.Error("expected inside of outline to be untouched")
	}
	if i.RGBAAt(6, 5) != testOff {
		t.Error("expected Max to be exclusive")
	}
}

func TestBox(t *testing.T) {
	tests := []struct {
		Name string
		Rect image.Rectangle
		Want int
	}{
		{"empty", image.Rect(3, 3, 3, 8), 0},
		{"single", image.Rect(0, 0, 1, 1), 1},
		{"cell", image.Rect(4, 2, 8, 6), 16},
		{"clipped", image.Rect(8, 8, 12, 12), 4},
	}
	for _, test := range tests {
		t.Run(test.Name, func(it *testing.T) {
			i := image.NewRGBA(image.Rect(0, 0, 10, 10))
			Box(i, test.Rect, testOn)
			if v := testCount(i); v != test.Want {
				it.Errorf("expected %d pixels, got %d", test.Want, v)
			}
		})
	}
}

package encoder

import (
	"bytes"
	"image"

	exif "github.com/dsoprea/go-exif/v3"
)

// applyOrientation bakes the EXIF Orientation tag into pixels. The
// re-encode drops all metadata, so a stored rotation would otherwise be
// lost. Missing or unreadable EXIF leaves the image untouched.
func applyOrientation(img image.Image, raw []byte) image.Image {
	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(bytes.NewReader(raw), nil, true)
	if err != nil {
		return img
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		values, ok := tag.Value.([]uint16)
		if !ok || len(values) == 0 {
			continue
		}
		return reorient(img, int(values[0]))
	}
	return img
}

// reorient applies one of the eight EXIF orientations.
func reorient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return flipH(img)
	case 3:
		return rotate180(img)
	case 4:
		return flipV(img)
	case 5:
		return transpose(img)
	case 6:
		return rotate90(img)
	case 7:
		return transverse(img)
	case 8:
		return rotate270(img)
	default:
		return img
	}
}

func flipH(img image.Image) image.Image {
	return remap(img, false, func(w, h, x, y int) (int, int) {
		return w - 1 - x, y
	})
}

func flipV(img image.Image) image.Image {
	return remap(img, false, func(w, h, x, y int) (int, int) {
		return x, h - 1 - y
	})
}

func rotate90(img image.Image) image.Image {
	return remap(img, true, func(w, h, x, y int) (int, int) {
		return h - 1 - y, x
	})
}

func rotate180(img image.Image) image.Image {
	return remap(img, false, func(w, h, x, y int) (int, int) {
		return w - 1 - x, h - 1 - y
	})
}

func rotate270(img image.Image) image.Image {
	return remap(img, true, func(w, h, x, y int) (int, int) {
		return y, w - 1 - x
	})
}

func transpose(img image.Image) image.Image {
	return remap(img, true, func(w, h, x, y int) (int, int) {
		return y, x
	})
}

func transverse(img image.Image) image.Image {
	return remap(img, true, func(w, h, x, y int) (int, int) {
		return h - 1 - y, w - 1 - x
	})
}

// remap copies every source pixel (x, y) to to(w, h, x, y) in the
// destination. swap exchanges the output width and height.
func remap(img image.Image, swap bool, to func(w, h, x, y int) (int, int)) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := to(w, h, x, y)
			dst.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

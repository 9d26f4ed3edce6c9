// Package encoder compresses single images into size-budgeted JPEGs.
//
// The size targeting is a descending quality ladder: encode in memory at
// StartQuality, StartQuality-5, and so on, and keep the first attempt
// that fits the budget. Qualities below 35 are never tried in the
// search; when nothing fits, one final encode at quality 30 is written
// regardless of size and flagged as best-effort.
package encoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"os"
	"path/filepath"

	"github.com/nfnt/resize"

	"squish/pkg/imgutil"
)

const (
	ladderFloor     = 35
	ladderStep      = 5
	fallbackQuality = 30
)

// Config holds the per-batch compression parameters.
type Config struct {
	MaxSizeKB    int
	StartQuality int
	MaxWidth     int
}

// DefaultConfig mirrors the defaults the original tool shipped with.
func DefaultConfig() Config {
	return Config{MaxSizeKB: 150, StartQuality: 85, MaxWidth: 1024}
}

func (c Config) Validate() error {
	if c.MaxSizeKB <= 0 {
		return fmt.Errorf("max size must be positive, got %d KB", c.MaxSizeKB)
	}
	if c.StartQuality < 1 || c.StartQuality > 100 {
		return fmt.Errorf("start quality must be in [1,100], got %d", c.StartQuality)
	}
	if c.MaxWidth <= 0 {
		return fmt.Errorf("max width must be positive, got %d", c.MaxWidth)
	}
	return nil
}

// Result describes one finished encode.
type Result struct {
	Quality    int
	Bytes      int64
	BestEffort bool
}

// Encode compresses the image at srcPath into a JPEG at destPath,
// creating the destination directory as needed. The source file is
// never modified.
func Encode(srcPath, destPath string, cfg Config) (Result, error) {
	img, err := decode(srcPath)
	if err != nil {
		return Result{}, err
	}

	img = normalize(img)
	img = downscale(img, cfg.MaxWidth)

	data, quality, bestEffort, err := searchQuality(img, cfg)
	if err != nil {
		return Result{}, &EncodeError{Path: srcPath, Err: err}
	}

	if err := writeFile(destPath, data); err != nil {
		return Result{}, &EncodeError{Path: srcPath, Err: err}
	}

	return Result{Quality: quality, Bytes: int64(len(data)), BestEffort: bestEffort}, nil
}

func decode(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	kind, err := imgutil.DetectHeader(data)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if kind == imgutil.KindUnknown {
		return nil, &DecodeError{Path: path, Err: errors.New("not a JPEG or PNG file")}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	if kind == imgutil.KindJPEG {
		img = applyOrientation(img, data)
	}

	return img, nil
}

// normalize flattens pixel formats the JPEG container cannot carry.
// jpeg.Encode would otherwise emit CMYK JPEGs for CMYK sources and
// keep premultiplied alpha artifacts for transparent ones.
func normalize(img image.Image) image.Image {
	switch img.(type) {
	case *image.YCbCr, *image.Gray:
		return img
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// downscale caps the width at maxWidth, keeping the aspect ratio.
// Smaller images pass through untouched; there is no upscaling.
func downscale(img image.Image, maxWidth int) image.Image {
	if img.Bounds().Dx() <= maxWidth {
		return img
	}
	return resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
}

func searchQuality(img image.Image, cfg Config) ([]byte, int, bool, error) {
	budget := cfg.MaxSizeKB * 1024
	var buf bytes.Buffer

	for q := cfg.StartQuality; q >= ladderFloor; q -= ladderStep {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return nil, 0, false, err
		}
		if buf.Len() <= budget {
			return buf.Bytes(), q, false, nil
		}
	}

	buf.Reset()
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: fallbackQuality}); err != nil {
		return nil, 0, false, err
	}
	return buf.Bytes(), fallbackQuality, true, nil
}

func writeFile(destPath string, data []byte) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(destDir, "squish-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), destPath)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

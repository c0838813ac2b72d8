// Package debug provides development helpers, currently screenshot
// capture of the rendered pet.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Capture writes timestamped PNG screenshots into a directory.
type Capture struct {
	dir    string
	prefix string
}

// NewCapture creates a capture handler. dir may be empty to write
// into the working directory.
func NewCapture(dir, prefix string) *Capture {
	return &Capture{
		dir:    dir,
		prefix: prefix,
	}
}

// SetDir changes the output directory for subsequent captures.
func (c *Capture) SetDir(dir string) {
	c.dir = dir
}

// SavePixels writes raw RGBA pixels as read back from OpenGL.
// Rows arrive bottom-up and are flipped during the copy. The alpha
// channel is kept, so a capture of the transparent window stays
// transparent. Returns the path of the written file.
func (c *Capture) SavePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	if c.dir != "" {
		if err := os.MkdirAll(c.dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	// NRGBA matches the straight-alpha bytes GL returns, so the
	// encoder stores them untouched.
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcY := height - 1 - y
		copy(img.Pix[y*img.Stride:y*img.Stride+rowSize], pixels[srcY*rowSize:srcY*rowSize+rowSize])
	}

	filename := c.nextFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

func (c *Capture) nextFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", c.prefix, timestamp)
	if c.dir != "" {
		filename = filepath.Join(c.dir, filename)
	}
	return filename
}

package pubcontent

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/pubcontent/content"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	mediaPrefix   = "/media/"
)

// mediaFile is an encoded file produced for an upload.
type mediaFile struct {
	name string
	data []byte
}

// processImage decodes src, limits it to maxImageWidth and renders one
// center-cropped JPEG per CropSpec. base is the file name stem; the
// returned Image points at files under /media/.
func processImage(src io.Reader, originalName, base string, crops []CropSpec) (content.Image, []mediaFile, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return content.Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		h = h * maxImageWidth / w
		w = maxImageWidth
		img = scale(img, bounds, w, h)
	}

	data, err := encodeJPEG(img)
	if err != nil {
		return content.Image{}, nil, err
	}
	files := []mediaFile{{name: base + ".jpg", data: data}}
	out := content.Image{
		Name:   originalName,
		URL:    mediaPrefix + base + ".jpg",
		Width:  w,
		Height: h,
	}

	for _, cs := range crops {
		if cs.Width <= 0 || cs.Height <= 0 || cs.Alias == "" {
			continue
		}
		cropped := scale(img, centerCrop(img.Bounds(), cs.Width, cs.Height), cs.Width, cs.Height)
		data, err := encodeJPEG(cropped)
		if err != nil {
			return content.Image{}, nil, err
		}
		name := base + "-" + content.Slugify(cs.Alias) + ".jpg"
		files = append(files, mediaFile{name: name, data: data})
		out.Crops = append(out.Crops, content.Crop{
			Alias:  cs.Alias,
			Width:  cs.Width,
			Height: cs.Height,
			URL:    mediaPrefix + name,
		})
	}
	return out, files, nil
}

// centerCrop returns the largest rectangle of b with the aspect ratio w:h,
// centered in b.
func centerCrop(b image.Rectangle, w, h int) image.Rectangle {
	bw, bh := b.Dx(), b.Dy()
	cw, ch := bw, bw*h/w
	if ch > bh {
		cw, ch = bh*w/h, bh
	}
	x := b.Min.X + (bw-cw)/2
	y := b.Min.Y + (bh-ch)/2
	return image.Rect(x, y, x+cw, y+ch)
}

func scale(src image.Image, sr image.Rectangle, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sr, draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// uniqueBase returns a file name stem derived from name that is not yet used
// in dir.
func uniqueBase(dir, name string) string {
	base := content.Slugify(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "image"
	}
	candidate := base
	for counter := 2; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate+".jpg")); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (a *App) handleMediaUpload(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dir := a.Config.MediaDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create media dir: %w", err)
	}

	img, files, err := processImage(src, file.Filename, uniqueBase(dir, file.Filename), a.Config.Crops)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.data, 0o644); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
	}
	c.Logger().Infof("uploaded %s with %d crops", img.URL, len(img.Crops))
	return c.JSON(http.StatusCreated, img)
}

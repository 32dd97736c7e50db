package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
)

// extractImage OCRs a raster image directly. The buffer is grayscaled and
// contrast-normalized first when it decodes; if it doesn't, the original
// bytes go to the engine untouched.
func (e *Extractor) extractImage(ctx context.Context, buf []byte, ft docmodel.FileType, languages []string) (Result, error) {
	if e.cfg.Engine == nil {
		return Result{}, fmt.Errorf("ocr engine unavailable for image input")
	}

	info := imageInfo(buf, ft)

	ocrInput := buf
	if pre, err := preprocess(buf); err == nil {
		ocrInput = pre
	} else {
		e.logger.Debug("image preprocessing skipped", "error", err)
	}

	if len(languages) == 0 {
		languages = e.cfg.Languages
	}
	if len(languages) == 0 {
		languages = []string{"eng"}
	}

	res, err := e.cfg.Engine.Recognize(ctx, ocrInput, languages)
	if err != nil {
		return Result{}, fmt.Errorf("image ocr: %w", err)
	}
	return Result{Text: res.Text, Image: info}, nil
}

func imageInfo(buf []byte, ft docmodel.FileType) *docmodel.ImageInfo {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return &docmodel.ImageInfo{Format: ft.Ext}
	}
	return &docmodel.ImageInfo{
		Dimensions: fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		Format:     format,
	}
}

// preprocess converts to grayscale and stretches the luma range to [0,255].
func preprocess(buf []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	minY, maxY := uint8(255), uint8(0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			gray.SetGray(x, y, g)
			if g.Y < minY {
				minY = g.Y
			}
			if g.Y > maxY {
				maxY = g.Y
			}
		}
	}

	if maxY > minY {
		scale := 255.0 / float64(maxY-minY)
		for i, v := range gray.Pix {
			gray.Pix[i] = uint8(float64(v-minY) * scale)
		}
	}

	var out bytes.Buffer
	if err := png.Encode(&out, gray); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

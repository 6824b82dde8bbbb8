package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// defaultImageExt is used when the source image format is unknown.
const defaultImageExt = "png"

// Image is a single embedded image pulled out of a document.
type Image struct {
	Name        string
	Data        []byte
	ContentType string
}

// Result holds everything extracted from one document.
type Result struct {
	Text   string
	Images []Image
}

// Extractor converts document bytes into text and image artifacts.
type Extractor interface {
	Extract(ctx context.Context, doc []byte) (Result, error)
}

// PDFExtractor extracts plain text and embedded images from PDF documents.
// Text comes from github.com/ledongthuc/pdf, images from pdfcpu.
type PDFExtractor struct {
	conf *model.Configuration
}

// NewPDFExtractor constructs a PDFExtractor with default pdfcpu settings.
// Validation is relaxed so slightly malformed documents still process.
func NewPDFExtractor() *PDFExtractor {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFExtractor{conf: conf}
}

// Extract runs text and image extraction over the document.
func (e *PDFExtractor) Extract(ctx context.Context, doc []byte) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	text, err := extractText(doc)
	if err != nil {
		return Result{}, fmt.Errorf("extract text: %w", err)
	}

	images, err := e.extractImages(doc)
	if err != nil {
		return Result{}, fmt.Errorf("extract images: %w", err)
	}

	return Result{Text: text, Images: images}, nil
}

func extractText(doc []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractImages walks every page and names each image page<N>_image<M>.<ext>
// with M counting per page from 1, so names are unique within one document
// and stable across runs.
func (e *PDFExtractor) extractImages(doc []byte) ([]Image, error) {
	pages, err := api.ExtractImagesRaw(bytes.NewReader(doc), nil, e.conf)
	if err != nil {
		return nil, err
	}

	var images []Image
	for _, pageImages := range pages {
		objNrs := make([]int, 0, len(pageImages))
		for objNr := range pageImages {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		seq := 0
		for _, objNr := range objNrs {
			img := pageImages[objNr]
			data, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("read image obj=%d page=%d: %w", objNr, img.PageNr, err)
			}

			seq++
			ext := strings.ToLower(strings.TrimPrefix(img.FileType, "."))
			if ext == "" {
				ext = defaultImageExt
			}
			name := ImageName(img.PageNr, seq, ext)
			images = append(images, Image{
				Name:        name,
				Data:        data,
				ContentType: MediaTypeForName(name),
			})
		}
	}
	return images, nil
}

// ImageName formats the canonical artifact name for an embedded image.
func ImageName(page, seq int, ext string) string {
	return fmt.Sprintf("page%d_image%d.%s", page, seq, ext)
}

// MediaTypeForName derives an image media type from the name's extension.
// jpg maps to image/jpeg, anything else to image/<ext>.
func MediaTypeForName(name string) string {
	ext := defaultImageExt
	if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
		ext = strings.ToLower(name[idx+1:])
	}
	if ext == "jpg" {
		return "image/jpeg"
	}
	return "image/" + ext
}

var _ Extractor = (*PDFExtractor)(nil)

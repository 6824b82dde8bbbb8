package uploads_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"docvault-backend/internal/extract"
	"docvault-backend/internal/shared/storage/object/memory"
	"docvault-backend/internal/uploads"
)

type stubExtractor struct {
	result extract.Result
	err    error
}

func (s stubExtractor) Extract(ctx context.Context, doc []byte) (extract.Result, error) {
	_ = ctx
	_ = doc
	return s.result, s.err
}

func newService(result extract.Result) (*uploads.Service, *memory.Store) {
	store := memory.New()
	return &uploads.Service{Store: store, Extractor: stubExtractor{result: result}}, store
}

func TestIngestWritesArtifactSet(t *testing.T) {
	t.Parallel()

	doc := []byte("%PDF-1.4 sample")
	result := extract.Result{
		Text: "extracted text body",
		Images: []extract.Image{
			{Name: "page1_image1.jpg", Data: []byte("jpeg-bytes")},
			{Name: "page2_image1.png", Data: []byte("png-bytes")},
		},
	}
	svc, store := newService(result)
	ctx := context.Background()

	summary, err := svc.Ingest(ctx, doc)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.ID == "" {
		t.Fatal("expected a minted upload ID")
	}
	if summary.ExtractedText != result.Text {
		t.Fatalf("extracted text = %q, want %q", summary.ExtractedText, result.Text)
	}
	if len(summary.ImageNames) != 2 || summary.ImageNames[0] != "page1_image1.jpg" {
		t.Fatalf("unexpected image names: %v", summary.ImageNames)
	}

	pdf, contentType, err := store.Get(ctx, summary.ID+"/original.pdf")
	if err != nil {
		t.Fatalf("get original: %v", err)
	}
	if !bytes.Equal(pdf, doc) {
		t.Fatal("stored original differs from ingested bytes")
	}
	if contentType != "application/pdf" {
		t.Fatalf("original content type = %q", contentType)
	}

	text, contentType, err := store.Get(ctx, summary.ID+"/extracted_text.txt")
	if err != nil {
		t.Fatalf("get text: %v", err)
	}
	if string(text) != result.Text || contentType != "text/plain" {
		t.Fatalf("stored text = %q (%s)", text, contentType)
	}

	_, jpegType, err := store.Get(ctx, summary.ID+"/images/page1_image1.jpg")
	if err != nil {
		t.Fatalf("get jpg image: %v", err)
	}
	if jpegType != "image/jpeg" {
		t.Fatalf("jpg media type = %q, want image/jpeg", jpegType)
	}
	_, pngType, err := store.Get(ctx, summary.ID+"/images/page2_image1.png")
	if err != nil {
		t.Fatalf("get png image: %v", err)
	}
	if pngType != "image/png" {
		t.Fatalf("png media type = %q, want image/png", pngType)
	}
}

func TestIngestRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	svc, _ := newService(extract.Result{})
	if _, err := svc.Ingest(context.Background(), nil); !errors.Is(err, uploads.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestIngestPropagatesExtractionFailure(t *testing.T) {
	t.Parallel()

	store := memory.New()
	svc := &uploads.Service{Store: store, Extractor: stubExtractor{err: errors.New("parser exploded")}}

	_, err := svc.Ingest(context.Background(), []byte("%PDF-1.4"))
	if err == nil {
		t.Fatal("expected extraction failure to propagate")
	}

	// The original write happened before extraction: a partial upload
	// stays visible exactly as far as it was written.
	keys, listErr := store.ListKeys(context.Background(), "")
	if listErr != nil {
		t.Fatalf("list keys: %v", listErr)
	}
	if len(keys) != 1 {
		t.Fatalf("expected only the original object, got %v", keys)
	}
}

func TestGetPDFRoundTrip(t *testing.T) {
	t.Parallel()

	doc := []byte("%PDF-1.4 exact bytes back")
	svc, _ := newService(extract.Result{Text: "t"})
	ctx := context.Background()

	summary, err := svc.Ingest(ctx, doc)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	got, err := svc.GetPDF(ctx, summary.ID)
	if err != nil {
		t.Fatalf("get pdf: %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Fatal("round-tripped PDF differs from original bytes")
	}

	// Reads do not mutate: a second fetch returns identical bytes.
	again, err := svc.GetPDF(ctx, summary.ID)
	if err != nil {
		t.Fatalf("get pdf again: %v", err)
	}
	if !bytes.Equal(again, got) {
		t.Fatal("second read differs from first")
	}
}

func TestGetTextMatchesExtractor(t *testing.T) {
	t.Parallel()

	svc, _ := newService(extract.Result{Text: "stubbed extraction output"})
	ctx := context.Background()

	summary, err := svc.Ingest(ctx, []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	text, err := svc.GetText(ctx, summary.ID)
	if err != nil {
		t.Fatalf("get text: %v", err)
	}
	if text != "stubbed extraction output" {
		t.Fatalf("text = %q", text)
	}
}

func TestReadsOnMissingUpload(t *testing.T) {
	t.Parallel()

	svc, _ := newService(extract.Result{})
	ctx := context.Background()

	if _, err := svc.GetText(ctx, "nope"); !errors.Is(err, uploads.ErrNotFound) {
		t.Fatalf("GetText: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetPDF(ctx, "nope"); !errors.Is(err, uploads.ErrNotFound) {
		t.Fatalf("GetPDF: expected ErrNotFound, got %v", err)
	}
	if _, _, err := svc.GetImage(ctx, "nope", "page1_image1.png"); !errors.Is(err, uploads.ErrNotFound) {
		t.Fatalf("GetImage: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "nope"); !errors.Is(err, uploads.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestListDescribesUploads(t *testing.T) {
	t.Parallel()

	result := extract.Result{
		Text:   "text",
		Images: []extract.Image{{Name: "page2_image1.jpg", Data: []byte("x")}},
	}
	svc, _ := newService(result)
	ctx := context.Background()

	infos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("expected no uploads, got %v", infos)
	}

	summary, err := svc.Ingest(ctx, []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	infos, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected one upload, got %d", len(infos))
	}
	info := infos[0]
	if info.ID != summary.ID || !info.HasText || !info.HasPDF {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(info.Images) != 1 || info.Images[0] != "page2_image1.jpg" {
		t.Fatalf("list image names = %v", info.Images)
	}
}

func TestDeleteIsTotal(t *testing.T) {
	t.Parallel()

	result := extract.Result{
		Text: "text",
		Images: []extract.Image{
			{Name: "page1_image1.png", Data: []byte("a")},
			{Name: "page1_image2.png", Data: []byte("b")},
		},
	}
	svc, store := newService(result)
	ctx := context.Background()

	summary, err := svc.Ingest(ctx, []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if err := svc.Delete(ctx, summary.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	infos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(infos) != 0 {
		t.Fatalf("upload still listed after delete: %v", infos)
	}

	if _, err := svc.GetText(ctx, summary.ID); !errors.Is(err, uploads.ErrNotFound) {
		t.Fatalf("text survived delete: %v", err)
	}
	if _, err := svc.GetPDF(ctx, summary.ID); !errors.Is(err, uploads.ErrNotFound) {
		t.Fatalf("pdf survived delete: %v", err)
	}
	for _, name := range summary.ImageNames {
		if _, _, err := svc.GetImage(ctx, summary.ID, name); !errors.Is(err, uploads.ErrNotFound) {
			t.Fatalf("image %s survived delete: %v", name, err)
		}
	}

	keys, err := store.ListKeys(ctx, summary.ID+"/")
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("residual keys after delete: %v", keys)
	}
}

package uploads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"docvault-backend/internal/extract"
	"docvault-backend/internal/shared/storage/object"
	"docvault-backend/internal/shared/telemetry"
)

var (
	// ErrNoData is returned when an ingest request decodes to zero bytes.
	ErrNoData = errors.New("no pdf data received")
	// ErrNotFound is returned when an upload or one of its artifacts does
	// not exist in the store.
	ErrNotFound = errors.New("upload not found")
)

const (
	originalSuffix = "/original.pdf"
	textSuffix     = "/extracted_text.txt"
	imagesSegment  = "/images/"

	pdfMediaType  = "application/pdf"
	textMediaType = "text/plain"
)

func originalKey(id string) string { return id + originalSuffix }
func textKey(id string) string     { return id + textSuffix }
func imagesPrefix(id string) string {
	return id + imagesSegment
}
func imageKey(id, name string) string { return id + imagesSegment + name }

// UploadSummary is the result of a successful ingestion.
type UploadSummary struct {
	ID            string
	ExtractedText string
	ImageNames    []string
}

// UploadInfo describes one stored upload for listings.
type UploadInfo struct {
	ID      string
	HasText bool
	HasPDF  bool
	Images  []string
}

// Service owns the ingestion pipeline and the store-backed read and delete
// operations. All state lives in the object store; the service itself is
// safe for concurrent use.
type Service struct {
	Store     object.Store
	Extractor extract.Extractor
}

// Ingest persists the document and its derived artifacts under a freshly
// minted ID. Writes are individual store calls with no rollback: a failure
// partway leaves the upload populated exactly as far as it got.
func (s *Service) Ingest(ctx context.Context, doc []byte) (UploadSummary, error) {
	if len(doc) == 0 {
		return UploadSummary{}, ErrNoData
	}

	id := uuid.NewString()

	if err := s.Store.Put(ctx, originalKey(id), doc, pdfMediaType); err != nil {
		return UploadSummary{}, fmt.Errorf("store original id=%s: %w", id, err)
	}

	result, err := s.Extractor.Extract(ctx, doc)
	if err != nil {
		return UploadSummary{}, fmt.Errorf("process document id=%s: %w", id, err)
	}

	if err := s.Store.Put(ctx, textKey(id), []byte(result.Text), textMediaType); err != nil {
		return UploadSummary{}, fmt.Errorf("store extracted text id=%s: %w", id, err)
	}

	names := make([]string, 0, len(result.Images))
	for _, img := range result.Images {
		mediaType := img.ContentType
		if mediaType == "" {
			mediaType = extract.MediaTypeForName(img.Name)
		}
		if err := s.Store.Put(ctx, imageKey(id, img.Name), img.Data, mediaType); err != nil {
			return UploadSummary{}, fmt.Errorf("store image id=%s name=%s: %w", id, img.Name, err)
		}
		names = append(names, img.Name)
	}

	telemetry.Info("upload.ingested", map[string]any{
		"upload_id":   id,
		"size_bytes":  len(doc),
		"text_bytes":  len(result.Text),
		"image_count": len(names),
	})

	return UploadSummary{ID: id, ExtractedText: result.Text, ImageNames: names}, nil
}

// List enumerates stored uploads, probing each ID for its text and original
// objects and listing its image children. Order follows the store listing.
func (s *Service) List(ctx context.Context) ([]UploadInfo, error) {
	ids, err := s.Store.ListTopLevelPrefixes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	infos := make([]UploadInfo, 0, len(ids))
	for _, id := range ids {
		hasText, err := s.Store.Exists(ctx, textKey(id))
		if err != nil {
			return nil, fmt.Errorf("probe text id=%s: %w", id, err)
		}
		hasPDF, err := s.Store.Exists(ctx, originalKey(id))
		if err != nil {
			return nil, fmt.Errorf("probe pdf id=%s: %w", id, err)
		}
		keys, err := s.Store.ListKeys(ctx, imagesPrefix(id))
		if err != nil {
			return nil, fmt.Errorf("list images id=%s: %w", id, err)
		}

		names := make([]string, 0, len(keys))
		for _, key := range keys {
			if idx := strings.LastIndex(key, "/"); idx >= 0 {
				names = append(names, key[idx+1:])
			} else {
				names = append(names, key)
			}
		}

		infos = append(infos, UploadInfo{ID: id, HasText: hasText, HasPDF: hasPDF, Images: names})
	}
	return infos, nil
}

// GetText fetches the extracted text for an upload.
func (s *Service) GetText(ctx context.Context, id string) (string, error) {
	key := textKey(id)
	exists, err := s.Store.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("probe text id=%s: %w", id, err)
	}
	if !exists {
		return "", ErrNotFound
	}

	data, _, err := s.Store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("get text id=%s: %w", id, err)
	}
	return string(data), nil
}

// GetImage fetches one image artifact and its stored media type.
func (s *Service) GetImage(ctx context.Context, id, name string) ([]byte, string, error) {
	key := imageKey(id, name)
	exists, err := s.Store.Exists(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("probe image id=%s name=%s: %w", id, name, err)
	}
	if !exists {
		return nil, "", ErrNotFound
	}

	data, contentType, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("get image id=%s name=%s: %w", id, name, err)
	}
	return data, contentType, nil
}

// GetPDF fetches the original document bytes.
func (s *Service) GetPDF(ctx context.Context, id string) ([]byte, error) {
	key := originalKey(id)
	exists, err := s.Store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("probe pdf id=%s: %w", id, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	data, _, err := s.Store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get pdf id=%s: %w", id, err)
	}
	return data, nil
}

// Delete removes every object under the upload's prefix. Not atomic: a
// concurrent write into the same prefix can leave residual objects.
func (s *Service) Delete(ctx context.Context, id string) error {
	prefix := id + "/"
	keys, err := s.Store.ListKeys(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list upload id=%s: %w", id, err)
	}
	if len(keys) == 0 {
		return ErrNotFound
	}

	deleted, err := s.Store.DeletePrefix(ctx, prefix)
	if err != nil {
		return fmt.Errorf("delete upload id=%s: %w", id, err)
	}

	telemetry.Info("upload.deleted", map[string]any{
		"upload_id":       id,
		"objects_deleted": deleted,
	})
	return nil
}

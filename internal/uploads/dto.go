package uploads

type uploadResponse struct {
	Success       bool     `json:"success"`
	ID            string   `json:"id"`
	ExtractedText string   `json:"extractedText"`
	ImageCount    int      `json:"imageCount"`
	Images        []string `json:"images"`
}

type listItemResponse struct {
	ID         string   `json:"id"`
	HasText    bool     `json:"hasText"`
	HasPdf     bool     `json:"hasPdf"`
	Images     []string `json:"images"`
	ImageCount int      `json:"imageCount"`
}

type textResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toUploadResponse(s UploadSummary) uploadResponse {
	return uploadResponse{
		Success:       true,
		ID:            s.ID,
		ExtractedText: s.ExtractedText,
		ImageCount:    len(s.ImageNames),
		Images:        s.ImageNames,
	}
}

func toListResponse(infos []UploadInfo) []listItemResponse {
	items := make([]listItemResponse, 0, len(infos))
	for _, info := range infos {
		images := info.Images
		if images == nil {
			images = []string{}
		}
		items = append(items, listItemResponse{
			ID:         info.ID,
			HasText:    info.HasText,
			HasPdf:     info.HasPDF,
			Images:     images,
			ImageCount: len(images),
		})
	}
	return items
}

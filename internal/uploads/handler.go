package uploads

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/shared/metrics"
	"docvault-backend/internal/shared/server/respond"
)

// Handler wires the upload HTTP routes to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the six upload routes under /api.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/upload", h.ingest)
	api.GET("/uploads", h.list)
	api.GET("/uploads/:id/text", h.getText)
	api.GET("/uploads/:id/images/:name", h.getImage)
	api.GET("/uploads/:id/pdf", h.getPDF)
	api.DELETE("/uploads/:id", h.remove)
}

func (h *Handler) ingest(c *gin.Context) {
	start := time.Now()
	metrics.IncIngestStarted()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		metrics.IncIngestFailed()
		respond.Error(c, http.StatusBadRequest, "Unable to read request body: "+err.Error())
		return
	}

	payload, err := DecodePayload(body, isBase64Request(c), c.GetHeader("Content-Type"))
	if err != nil {
		metrics.IncIngestFailed()
		switch {
		case errors.Is(err, ErrEmptyBody):
			respond.Error(c, http.StatusBadRequest, "Empty request body")
		case errors.Is(err, ErrMalformedEncoding):
			respond.Error(c, http.StatusBadRequest, "Invalid base64 in request body")
		default:
			respond.Error(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	summary, err := h.Svc.Ingest(c.Request.Context(), payload)
	if err != nil {
		metrics.IncIngestFailed()
		if errors.Is(err, ErrNoData) {
			respond.Error(c, http.StatusBadRequest, "No PDF data received")
			return
		}
		respond.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.IncIngestCompleted()
	metrics.ObserveIngestDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	respond.OK(c, toUploadResponse(summary))
}

func (h *Handler) list(c *gin.Context) {
	infos, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	respond.OK(c, toListResponse(infos))
}

func (h *Handler) getText(c *gin.Context) {
	text, err := h.Svc.GetText(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Text not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	respond.OK(c, textResponse{Success: true, Text: text})
}

func (h *Handler) getImage(c *gin.Context) {
	data, contentType, err := h.Svc.GetImage(c.Request.Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	writeBinary(c, data, contentType)
}

func (h *Handler) getPDF(c *gin.Context) {
	data, err := h.Svc.GetPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	writeBinary(c, data, pdfMediaType)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "Upload not found")
			return
		}
		respond.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	respond.OK(c, messageResponse{Success: true, Message: "Upload deleted successfully"})
}

// isBase64Request reads the transport's base64 flag. API gateways that
// forward binary bodies as base64 text set this header on the proxied
// request.
func isBase64Request(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("Is-Base64-Encoded"), "true")
}

func writeBinary(c *gin.Context, data []byte, contentType string) {
	c.Header("Content-Disposition", "inline")
	c.Data(http.StatusOK, contentType, data)
}

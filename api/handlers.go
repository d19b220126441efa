package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prasetyowira/qrbatch/constant"
	"github.com/prasetyowira/qrbatch/domain/qrbatch"
	appLogger "github.com/prasetyowira/qrbatch/infrastructure/logger"
)

// PageRenderer renders the QR image of one page
type PageRenderer interface {
	Render(ctx context.Context, baseURL, pageID string) ([]byte, error)
}

// Handler contains service dependencies for API handlers
type Handler struct {
	renderer PageRenderer
	baseURL  string
}

// PageResponse describes one page and where to fetch its QR image
type PageResponse struct {
	Page  string `json:"page"`
	URL   string `json:"url"`
	Image string `json:"image"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewHandler creates a new API handler. baseURL is used when a request does
// not carry the base query parameter.
func NewHandler(renderer PageRenderer, baseURL string) *Handler {
	return &Handler{
		renderer: renderer,
		baseURL:  baseURL,
	}
}

// resolveBaseURL returns the base query parameter if present, even when
// empty, and the configured base URL otherwise.
func (h *Handler) resolveBaseURL(r *http.Request) (string, bool) {
	if values, ok := r.URL.Query()[constant.QueryBaseURL]; ok && len(values) > 0 {
		return values[0], true
	}
	return h.baseURL, false
}

// ServePageQRCode writes the PNG QR code of the requested page
func (h *Handler) ServePageQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pageID := chi.URLParam(r, "page")
	baseURL, _ := h.resolveBaseURL(r)

	appLogger.CtxDebug(ctx, "Processing page QR code request", appLogger.LoggerInfo{
		ContextFunction: constant.CtxServePage,
		Data: map[string]interface{}{
			constant.DataPage:    pageID,
			constant.DataBaseURL: baseURL,
		},
	})

	png, err := h.renderer.Render(ctx, baseURL, pageID)
	if err != nil {
		if errors.Is(err, qrbatch.ErrUnknownPage) {
			WriteJSONError(w, "Page not found", http.StatusNotFound)
			return
		}

		appLogger.CtxError(ctx, "Error rendering page QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxServePage,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIRender,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataPage:    pageID,
				constant.DataBaseURL: baseURL,
			},
		})

		WriteJSONError(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	appLogger.CtxInfo(ctx, "Page QR code served", appLogger.LoggerInfo{
		ContextFunction: constant.CtxServePage,
		Data: map[string]interface{}{
			constant.DataPage: pageID,
			constant.DataSize: len(png),
		},
	})

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// ListPages returns every page with its target URL and image location
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	baseURL, explicit := h.resolveBaseURL(r)

	suffix := ""
	if explicit {
		suffix = "?" + constant.QueryBaseURL + "=" + url.QueryEscape(baseURL)
	}

	resp := make([]PageResponse, 0, len(qrbatch.Pages()))
	for _, page := range qrbatch.Pages() {
		resp = append(resp, PageResponse{
			Page:  string(page),
			URL:   page.URL(baseURL),
			Image: strings.Replace(constant.RoutePageQRCode, "{page}", string(page), 1) + suffix,
		})
	}

	appLogger.CtxDebug(r.Context(), "Listing pages", appLogger.LoggerInfo{
		ContextFunction: constant.CtxListPages,
		Data: map[string]interface{}{
			constant.DataBaseURL: baseURL,
		},
	})

	WriteJSON(w, resp, http.StatusOK)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}

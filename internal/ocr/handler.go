package ocr

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
)

// maxUploadBytes bounds the multipart body of a scan upload.
const maxUploadBytes = 10 << 20

type RecognizerAPI interface {
	Recognize(ctx context.Context, filename string, document io.Reader) (string, error)
}

// Response is the body of a successful scan. It keeps the raw text next to
// the envelope fields so the form can show what was read.
type Response struct {
	Success bool   `json:"success"`
	Data    Result `json:"data"`
	RawText string `json:"rawText"`
}

type Handler struct {
	*transport.BaseHandler
	Recognizer RecognizerAPI
}

func NewHandler(baseHandler *transport.BaseHandler, recognizer RecognizerAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Recognizer:  recognizer,
	}
}

// ScanIDCard handles POST /ocr
func (h *Handler) ScanIDCard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	text, err := h.Recognizer.Recognize(r.Context(), header.Filename, file)
	if err != nil {
		h.HandleServiceError(w, internal.NewUpstreamServiceError(err.Error(), nil))
		return
	}

	result := Extract(text)
	h.Logger.Info("ID card scanned",
		"filename", header.Filename,
		"name_found", result.Name != "",
		"id_number_found", result.IDNumber != "",
	)
	h.WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
		RawText: text,
	})
}

package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/pkg/logger"
)

// Envelope is the response shape shared by every JSON endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess wraps data in a successful envelope.
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	h.WriteJSON(w, status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// WriteError writes an error envelope
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "message", message)
	} else {
		h.Logger.Warn("http error", "status", status, "message", message)
	}

	h.WriteJSON(w, status, Envelope{
		Success: false,
		Error:   message,
	})
}

// HandleServiceError converts a service failure into the error envelope.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
		return
	}
	h.WriteError(w, http.StatusInternalServerError, err.Error())
}

// MaxJSONBodyBytes caps a JSON request body.
const MaxJSONBodyBytes = 1 << 20

// DecodeJSON reads the request body into dst. An empty body decodes as an empty object.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	body := http.MaxBytesReader(nil, r.Body, MaxJSONBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return internal.NewPayloadTooLargeError(fmt.Sprintf("Request body exceeds %d bytes", MaxJSONBodyBytes))
		}
		return internal.NewValidationError("Invalid request body", internal.ErrCodeInvalidRequestBody).WithCause(err)
	}
	return nil
}

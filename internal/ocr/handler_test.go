package ocr_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/ocr"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeRecognizer struct {
	text     string
	err      error
	filename string
	content  []byte
	calls    int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, filename string, document io.Reader) (string, error) {
	f.calls++
	f.filename = filename
	content, err := io.ReadAll(document)
	if err != nil {
		return "", err
	}
	f.content = content
	return f.text, f.err
}

func multipartRequest(field, filename string, content []byte) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		Expect(err).NotTo(HaveOccurred())
		part.Write(content)
	}
	Expect(mw.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/ocr", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var _ = Describe("Handler", func() {
	var (
		recognizer *fakeRecognizer
		handler    *ocr.Handler
	)

	BeforeEach(func() {
		recognizer = &fakeRecognizer{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = ocr.NewHandler(&transport.BaseHandler{Logger: logger}, recognizer)
	})

	It("should return the extracted fields with the raw text", func() {
		recognizer.text = cardText
		w := httptest.NewRecorder()

		handler.ScanIDCard(w, multipartRequest("file", "card.jpg", []byte("img")))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(recognizer.filename).To(Equal("card.jpg"))

		var resp ocr.Response
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Success).To(BeTrue())
		Expect(resp.Data.Name).To(Equal("NGUYỄN VĂN A"))
		Expect(resp.Data.IDNumber).To(Equal("001203004567"))
		Expect(resp.RawText).To(Equal(cardText))
	})

	It("should omit fields that were not recognised", func() {
		recognizer.text = "blurry"
		w := httptest.NewRecorder()

		handler.ScanIDCard(w, multipartRequest("file", "card.jpg", []byte("img")))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"success":true,"data":{},"rawText":"blurry"}`))
	})

	It("should answer 400 without a file", func() {
		w := httptest.NewRecorder()

		handler.ScanIDCard(w, multipartRequest("", "", nil))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(MatchJSON(`{"success":false,"error":"No file provided"}`))
	})

	It("should answer 413 for an upload above the limit", func() {
		w := httptest.NewRecorder()

		handler.ScanIDCard(w, multipartRequest("file", "card.jpg", bytes.Repeat([]byte{0xFF}, 11<<20)))

		Expect(w.Code).To(Equal(http.StatusRequestEntityTooLarge))
		Expect(w.Body.String()).To(MatchJSON(`{"success":false,"error":"File too large"}`))
		Expect(recognizer.calls).To(BeZero())
	})

	It("should hand the uploaded bytes to the recognizer unchanged", func() {
		recognizer.text = cardText
		content := bytes.Repeat([]byte("x"), 1000)
		w := httptest.NewRecorder()

		handler.ScanIDCard(w, multipartRequest("file", "card.jpg", content))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(recognizer.content).To(Equal(content))
	})

	It("should answer 500 when the OCR service fails", func() {
		recognizer.err = errors.New("OCR API error: 502")
		w := httptest.NewRecorder()

		handler.ScanIDCard(w, multipartRequest("file", "card.jpg", []byte("img")))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(MatchJSON(`{"success":false,"error":"OCR API error: 502"}`))
	})
})

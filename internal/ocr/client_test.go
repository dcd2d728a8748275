package ocr_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/ocr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Client", func() {
	var (
		server *httptest.Server
		calls  int32
		logger *slog.Logger
	)

	BeforeEach(func() {
		atomic.StoreInt32(&calls, 0)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	newClient := func(handler http.HandlerFunc, timeout time.Duration) *ocr.Client {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			handler(w, r)
		}))
		return ocr.NewClient(ocr.Config{BaseURL: server.URL, Timeout: timeout}, logger)
	}

	It("should upload the document as multipart field file", func() {
		client := newClient(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal(ocr.DefaultEndpoint))
			Expect(r.Header.Get("Accept")).To(Equal("application/json"))

			file, header, err := r.FormFile("file")
			Expect(err).NotTo(HaveOccurred())
			defer file.Close()
			Expect(header.Filename).To(Equal("card.jpg"))
			content, _ := io.ReadAll(file)
			Expect(string(content)).To(Equal("image-bytes"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"text":"Số / No.: 123"}`))
		}, time.Second)

		text, err := client.Recognize(context.Background(), "card.jpg", strings.NewReader("image-bytes"))
		Expect(err).NotTo(HaveOccurred())
		Expect(text).To(Equal("Số / No.: 123"))
	})

	It("should fail on an upstream error status without retrying", func() {
		client := newClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, time.Second)

		_, err := client.Recognize(context.Background(), "card.jpg", strings.NewReader("x"))
		Expect(err).To(MatchError("OCR API error: 502"))
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("should give up after the timeout", func() {
		client := newClient(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			w.Write([]byte(`{"text":"late"}`))
		}, 50*time.Millisecond)

		_, err := client.Recognize(context.Background(), "card.jpg", strings.NewReader("x"))
		Expect(err).To(HaveOccurred())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("should reject a response without text", func() {
		client := newClient(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}, time.Second)

		_, err := client.Recognize(context.Background(), "card.jpg", strings.NewReader("x"))
		Expect(err).To(MatchError(ocr.ErrNoText))
	})
})

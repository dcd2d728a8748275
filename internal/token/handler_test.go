package token_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store/storetest"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token"
	tokenPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

const createBody = `{"token_id":"TK001","device_code":"USB-TOKEN-001","password":"password123","valid_until":"2026-12-31 23:59:59"}`

var _ = Describe("Token Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
	)

	do := func(method, path, body string) (*httptest.ResponseRecorder, envelope) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.OpenSQLite(context.Background())
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := token.NewService(tokenPostgres.NewTokenRepository(db), bcrypt.MinCost, slogger)
		handler := token.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/tokens", handler.ListTokens)
		router.Post("/tokens", handler.CreateToken)
		router.Get("/tokens/{id}", handler.GetToken)
		router.Post("/tokens/{id}/verify-password", handler.VerifyPassword)
		router.Delete("/tokens/{id}", handler.DeleteToken)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("should list an empty table as an empty array", func() {
		w, env := do(http.MethodGet, "/tokens", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())
		Expect(string(env.Data)).To(Equal("[]"))
	})

	It("should never expose the password or its hash", func() {
		w, env := do(http.MethodPost, "/tokens", createBody)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Token created successfully"))
		Expect(string(env.Data)).NotTo(ContainSubstring("password"))

		_, env = do(http.MethodGet, "/tokens", "")
		Expect(string(env.Data)).NotTo(ContainSubstring("password"))
		Expect(string(env.Data)).NotTo(ContainSubstring("$2a$"))

		var tokens []token.Token
		Expect(json.Unmarshal(env.Data, &tokens)).To(Succeed())
		Expect(tokens).To(HaveLen(1))
		Expect(tokens[0].DeviceCode).To(Equal("USB-TOKEN-001"))
	})

	It("should reject a token without valid_until", func() {
		w, env := do(http.MethodPost, "/tokens", `{"token_id":"TK001","device_code":"X","password":"p"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(Equal("valid_until is required"))
	})

	It("should reject a duplicate token id", func() {
		do(http.MethodPost, "/tokens", createBody)

		w, env := do(http.MethodPost, "/tokens", createBody)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(Equal("Token with ID 'TK001' already exists"))
	})

	It("should verify the device password", func() {
		do(http.MethodPost, "/tokens", createBody)

		w, env := do(http.MethodPost, "/tokens/TK001/verify-password", `{"password":"password123"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(MatchJSON(`{"token_id":"TK001","valid":true}`))

		_, env = do(http.MethodPost, "/tokens/TK001/verify-password", `{"password":"wrong"}`)
		Expect(string(env.Data)).To(MatchJSON(`{"token_id":"TK001","valid":false}`))
	})

	It("should 404 on unknown tokens", func() {
		w, env := do(http.MethodGet, "/tokens/TK404", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Error).To(Equal("Token not found"))

		w, _ = do(http.MethodDelete, "/tokens/TK404", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should acknowledge deletion", func() {
		do(http.MethodPost, "/tokens", createBody)

		w, env := do(http.MethodDelete, "/tokens/TK001", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(MatchJSON(`{"token_id":"TK001","deleted":true}`))
	})
})

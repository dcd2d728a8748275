package user_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	userDatamodel "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/datamodel/user"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store/storetest"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department"
	departmentPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token"
	tokenPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/token/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user"
	userPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/user/postgres"
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

const user001 = `{"user_id":"USER001","name":"Nguyễn Văn A","national_id_number":123456789,"department_id":"DV001"}`

var _ = Describe("User Handler Integration", func() {
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

	listUsers := func() []map[string]interface{} {
		_, env := do(http.MethodGet, "/users", "")
		Expect(env.Success).To(BeTrue())
		var users []map[string]interface{}
		Expect(json.Unmarshal(env.Data, &users)).To(Succeed())
		return users
	}

	BeforeEach(func() {
		var err error
		db, err = storetest.OpenSQLite(context.Background())
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		base := &transport.BaseHandler{Logger: slogger}

		departments := department.NewHandler(base, department.NewService(departmentPostgres.NewDepartmentRepository(db), slogger))
		tokens := token.NewHandler(base, token.NewService(tokenPostgres.NewTokenRepository(db), bcrypt.MinCost, slogger))
		users := user.NewHandler(base, user.NewService(userPostgres.NewUserRepository(db), slogger))

		router = chi.NewRouter()
		router.Post("/departments", departments.CreateDepartment)
		router.Delete("/departments/{id}", departments.DeleteDepartment)
		router.Post("/tokens", tokens.CreateToken)
		router.Get("/users", users.ListUsers)
		router.Post("/users", users.CreateUser)
		router.Get("/users/export", users.ExportUsers)
		router.Get("/users/{id}", users.GetUser)
		router.Put("/users/{id}", users.UpdateUser)
		router.Delete("/users/{id}", users.DeleteUser)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("should list users with their department embedded", func() {
		w, env := do(http.MethodPost, "/departments", `{"id":"DV001","name":"Phòng Kỹ thuật"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())

		w, env = do(http.MethodPost, "/users", user001)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())
		Expect(env.Message).To(Equal("User created successfully"))

		users := listUsers()
		Expect(users).To(HaveLen(1))
		Expect(users[0]["user_id"]).To(Equal("USER001"))
		Expect(users[0]["department"]).To(HaveKeyWithValue("id", "DV001"))
		Expect(users[0]["department"]).To(HaveKeyWithValue("name", "Phòng Kỹ thuật"))
		Expect(users[0]).NotTo(HaveKey("token"))
	})

	It("should refuse a second user with the same id", func() {
		do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A","national_id_number":1}`)

		w, env := do(http.MethodPost, "/users", `{"user_id":"USER001","name":"B","national_id_number":2}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Error).To(ContainSubstring("USER001"))

		var count int64
		Expect(db.Table("users").Where("user_id = ?", "USER001").Count(&count).Error).To(Succeed())
		Expect(count).To(Equal(int64(1)))
	})

	It("should reject an empty update and leave the user unchanged", func() {
		do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A","national_id_number":1}`)
		_, before := do(http.MethodGet, "/users/USER001", "")

		w, env := do(http.MethodPut, "/users/USER001", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Error).To(Equal("No fields provided to update"))

		_, after := do(http.MethodGet, "/users/USER001", "")
		Expect(string(after.Data)).To(MatchJSON(string(before.Data)))
	})

	It("should ignore a user_id in the update body", func() {
		do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A","national_id_number":1}`)

		w, env := do(http.MethodPut, "/users/USER001", `{"user_id":"USER999"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(Equal("No fields provided to update"))

		w, env = do(http.MethodPut, "/users/USER001", `{"user_id":"USER999","role":"Admin"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("User updated successfully"))

		var updated user.User
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.UserID).To(Equal("USER001"))
		Expect(*updated.Role).To(Equal("Admin"))
	})

	It("should advance updated_at on a partial update and keep the rest", func() {
		do(http.MethodPost, "/departments", `{"id":"DV001","name":"Phòng Kỹ thuật"}`)
		do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A","national_id_number":1,"department_id":"DV001","role":"User"}`)
		past := time.Now().UTC().Add(-time.Hour)
		Expect(db.Exec("UPDATE users SET created_at = ?, updated_at = ? WHERE user_id = ?", past, past, "USER001").Error).To(Succeed())

		_, env := do(http.MethodGet, "/users/USER001", "")
		var before user.User
		Expect(json.Unmarshal(env.Data, &before)).To(Succeed())

		w, env := do(http.MethodPut, "/users/USER001", `{"name":"X","user_id":"USER002"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var after user.User
		Expect(json.Unmarshal(env.Data, &after)).To(Succeed())
		Expect(after.UserID).To(Equal("USER001"))
		Expect(after.Name).To(Equal("X"))
		Expect(after.NationalIDNumber).To(Equal(int64(1)))
		Expect(*after.DepartmentID).To(Equal("DV001"))
		Expect(*after.Role).To(Equal("User"))
		Expect(after.CreatedAt).To(BeTemporally("==", before.CreatedAt))
		Expect(after.UpdatedAt).To(BeTemporally(">", before.UpdatedAt))
	})

	It("should answer 404 when deleting an unknown user", func() {
		w, env := do(http.MethodDelete, "/users/DOES-NOT-EXIST", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Success).To(BeFalse())
		Expect(env.Error).To(Equal("User not found"))
	})

	It("should answer 404 when updating an unknown user", func() {
		w, env := do(http.MethodPut, "/users/DOES-NOT-EXIST", `{"name":"X"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Error).To(Equal("User not found"))
	})

	It("should acknowledge a deletion", func() {
		do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A","national_id_number":1}`)

		w, env := do(http.MethodDelete, "/users/USER001", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("User deleted successfully"))
		Expect(string(env.Data)).To(MatchJSON(`{"user_id":"USER001","deleted":true}`))
		Expect(listUsers()).To(BeEmpty())
	})

	It("should reject a missing national id number", func() {
		w, env := do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(Equal("national_id_number is required"))
	})

	It("should reject an unknown department reference", func() {
		w, env := do(http.MethodPost, "/users", user001)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(Equal("Department with ID 'DV001' does not exist"))
	})

	It("should null department_id once the department is deleted", func() {
		do(http.MethodPost, "/departments", `{"id":"DV001","name":"Phòng Kỹ thuật"}`)
		do(http.MethodPost, "/users", user001)

		w, _ := do(http.MethodDelete, "/departments/DV001", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		users := listUsers()
		Expect(users).To(HaveLen(1))
		Expect(users[0]).To(HaveKeyWithValue("department_id", BeNil()))
		Expect(users[0]).NotTo(HaveKey("department"))
	})

	It("should list a user without relations with both relations absent", func() {
		do(http.MethodPost, "/users", `{"user_id":"USER002","name":"B","national_id_number":2}`)

		users := listUsers()
		Expect(users).To(HaveLen(1))
		Expect(users[0]).NotTo(HaveKey("department"))
		Expect(users[0]).NotTo(HaveKey("token"))
		Expect(users[0]).To(HaveKeyWithValue("role", BeNil()))
	})

	It("should embed the token without its password hash", func() {
		do(http.MethodPost, "/tokens", `{"token_id":"TK001","device_code":"USB-TOKEN-001","password":"password123","valid_until":"2026-12-31 23:59:59"}`)
		do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A","national_id_number":1,"token_id":"TK001"}`)

		_, env := do(http.MethodGet, "/users/USER001", "")
		Expect(string(env.Data)).To(ContainSubstring(`"device_code":"USB-TOKEN-001"`))
		Expect(string(env.Data)).NotTo(ContainSubstring("password"))
	})

	It("should export the roster as a workbook", func() {
		do(http.MethodPost, "/users", `{"user_id":"USER001","name":"A","national_id_number":1}`)

		req := httptest.NewRequest(http.MethodGet, "/users/export", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal(user.XLSXContentType))
		Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring(".xlsx"))
		// XLSX files are zip archives
		Expect(w.Body.Bytes()[:2]).To(Equal([]byte("PK")))
	})
})

var _ = Describe("UpdateUser", func() {
	It("should leave the existence check to the service", func() {
		repo := NewMockRepository()
		repo.users["USER001"] = &userDatamodel.User{UserID: "USER001", Name: "A", NationalIDNumber: 1}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := user.NewHandler(&transport.BaseHandler{Logger: logger}, user.NewService(repo, logger))

		router := chi.NewRouter()
		router.Put("/users/{id}", handler.UpdateUser)

		req := httptest.NewRequest(http.MethodPut, "/users/USER001", strings.NewReader(`{"name":"B"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(repo.reads).To(Equal(2))
	})
})

package department_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/core/store/storetest"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department"
	departmentPostgres "github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/department/postgres"
	"github.com/VuDinhTrung-461994/DigitalSignatureManager/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

var _ = Describe("Department Handler Integration", func() {
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
		service := department.NewService(departmentPostgres.NewDepartmentRepository(db), slogger)
		handler := department.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		router = chi.NewRouter()
		router.Get("/departments", handler.ListDepartments)
		router.Post("/departments", handler.CreateDepartment)
		router.Get("/departments/{id}", handler.GetDepartment)
		router.Put("/departments/{id}", handler.UpdateDepartment)
		router.Delete("/departments/{id}", handler.DeleteDepartment)
	})

	AfterEach(func() {
		Expect(storetest.Close(db)).To(Succeed())
	})

	It("should list an empty table as an empty array", func() {
		w, env := do(http.MethodGet, "/departments", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		Expect(env.Success).To(BeTrue())
		Expect(string(env.Data)).To(Equal("[]"))
	})

	It("should create and then list a department", func() {
		w, env := do(http.MethodPost, "/departments", `{"id":"DV001","name":"Phòng Kỹ thuật"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Department created successfully"))

		_, env = do(http.MethodGet, "/departments", "")
		var departments []department.Department
		Expect(json.Unmarshal(env.Data, &departments)).To(Succeed())
		Expect(departments).To(HaveLen(1))
		Expect(departments[0].Name).To(Equal("Phòng Kỹ thuật"))
	})

	It("should reject a duplicate id with 400", func() {
		do(http.MethodPost, "/departments", `{"id":"DV001","name":"A"}`)

		w, env := do(http.MethodPost, "/departments", `{"id":"DV001","name":"B"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Error).To(Equal("Department with ID 'DV001' already exists"))
	})

	It("should reject a malformed body", func() {
		w, env := do(http.MethodPost, "/departments", `{"id":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(ContainSubstring("Invalid request body"))
	})

	It("should return 404 for an unknown department", func() {
		w, env := do(http.MethodGet, "/departments/missing", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Error).To(Equal("Department not found"))
	})

	It("should update the name", func() {
		do(http.MethodPost, "/departments", `{"id":"DV001","name":"A"}`)

		w, env := do(http.MethodPut, "/departments/DV001", `{"name":"B"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var updated department.Department
		Expect(json.Unmarshal(env.Data, &updated)).To(Succeed())
		Expect(updated.Name).To(Equal("B"))
	})

	It("should answer 404 when updating an unknown department", func() {
		w, env := do(http.MethodPut, "/departments/DV404", `{"name":"B"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(env.Error).To(Equal("Department not found"))
	})

	It("should reject an update without fields", func() {
		do(http.MethodPost, "/departments", `{"id":"DV001","name":"A"}`)

		w, env := do(http.MethodPut, "/departments/DV001", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Error).To(Equal("No fields provided to update"))
	})

	It("should acknowledge deletion and 404 afterwards", func() {
		do(http.MethodPost, "/departments", `{"id":"DV001","name":"A"}`)

		w, env := do(http.MethodDelete, "/departments/DV001", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(string(env.Data)).To(MatchJSON(`{"id":"DV001","deleted":true}`))

		w, _ = do(http.MethodDelete, "/departments/DV001", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})

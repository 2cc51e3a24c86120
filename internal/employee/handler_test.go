package employee_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/bengkelku/internal/employee"
	employeePostgres "github.com/frahmantamala/bengkelku/internal/employee/postgres"
	. "github.com/frahmantamala/bengkelku/internal/testutil"
	"github.com/frahmantamala/bengkelku/internal/transport"
	"github.com/frahmantamala/bengkelku/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler", func() {
	var router *chi.Mux

	BeforeEach(func() {
		db, err := NewSQLiteDB()
		Expect(err).NotTo(HaveOccurred())

		service := employee.NewService(employeePostgres.NewEmployeeRepository(db), logger.Discard())
		handler := employee.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
	})

	It("creates and fetches an employee", func() {
		body := `{"name":"Budi","position":"Mekanik","base_salary":"3500000","joined_at":"2024-03-01T00:00:00Z"}`
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body)))
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/1", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
	})

	It("answers 404 with an error body", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/99", nil))
		Expect(w.Code).To(Equal(http.StatusNotFound))

		var resp map[string]map[string]any
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp["error"]["code"]).To(Equal("EMPLOYEE_NOT_FOUND"))
	})

	It("answers 400 for malformed ids and bodies", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/abc", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"nama":"x"}`)))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	ChangeStatus(w http.ResponseWriter, r *http.Request)
	Resign(w http.ResponseWriter, r *http.Request)

	// Salary history
	SalaryHistory(w http.ResponseWriter, r *http.Request)
	ChangeSalary(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
	paging          Paging
}

func NewEmployeeHandler(employeeService employee.EmployeeService, paging Paging) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService, paging: paging}
}

func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q, err := h.paging.parseList(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	for _, param := range []string{"department_id", "designation_id"} {
		if err := int64Filter(r, param, &q.opts); err != nil {
			response.HandleError(w, err)
			return
		}
	}

	rows, total, err := h.employeeService.List(r.Context(), q.opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rows, q.meta(total))
}

func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.Update(r.Context(), chi.URLParam(r, "employeeID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

func (h *employeeHandlerImpl) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req employee.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.employeeService.ChangeStatus(r.Context(), chi.URLParam(r, "employeeID"), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee status updated", nil)
}

func (h *employeeHandlerImpl) Resign(w http.ResponseWriter, r *http.Request) {
	var req employee.ResignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.employeeService.Resign(r.Context(), chi.URLParam(r, "employeeID"), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee resigned", nil)
}

func (h *employeeHandlerImpl) SalaryHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.employeeService.SalaryHistory(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

func (h *employeeHandlerImpl) ChangeSalary(w http.ResponseWriter, r *http.Request) {
	var req employee.SalaryChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.employeeService.ChangeSalary(r.Context(), chi.URLParam(r, "employeeID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary updated", result)
}

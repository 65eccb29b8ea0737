package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Sheet lifecycle
	Generate(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	UpdateSheet(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)

	// Reads
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)

	// Reports
	Report(w http.ResponseWriter, r *http.Request)
	Ledger(w http.ResponseWriter, r *http.Request)
	Payslips(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	paging         Paging
}

func NewPayrollHandler(payrollService payroll.PayrollService, paging Paging) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService, paging: paging}
}

// ========== SHEET LIFECYCLE ==========

func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req payroll.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", map[string]string{"body": err.Error()})
		return
	}

	result, err := h.payrollService.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll saved", result)
}

func (h *payrollHandlerImpl) UpdateSheet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", map[string]string{"body": err.Error()})
		return
	}

	result, err := h.payrollService.UpdateSheet(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll updated", result)
}

func (h *payrollHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req payroll.StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateStatus(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll status updated", result)
}

// ========== READS ==========

func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q, err := h.paging.parseList(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, total, err := h.payrollService.List(r.Context(), q.opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rows, q.meta(total))
}

func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.Export(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll sheet exported", result)
}

// ========== REPORTS ==========

func (h *payrollHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := payroll.ReportRequest{
		From:   query.Get("from"),
		To:     query.Get("to"),
		Status: query.Get("status"),
	}

	var err error
	if req.DepartmentID, err = optionalID(r, "department_id"); err != nil {
		response.HandleError(w, err)
		return
	}
	if req.DesignationID, err = optionalID(r, "designation_id"); err != nil {
		response.HandleError(w, err)
		return
	}

	rows, err := h.payrollService.Report(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

func (h *payrollHandlerImpl) Ledger(w http.ResponseWriter, r *http.Request) {
	q, err := h.paging.parseList(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := r.URL.Query()
	req := payroll.LedgerRequest{
		EmployeeID: query.Get("employee_id"),
		From:       query.Get("from"),
		To:         query.Get("to"),
	}

	rows, total, err := h.payrollService.Ledger(r.Context(), req, q.opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rows, q.meta(total))
}

func (h *payrollHandlerImpl) Payslips(w http.ResponseWriter, r *http.Request) {
	q, err := h.paging.parseList(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, total, err := h.payrollService.Payslips(r.Context(), q.opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rows, q.meta(total))
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/master"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/salaryhead"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/handler/http/response"
)

type MasterHandler interface {
	// Department and designation handlers, selected by kind
	Create(kind master.Kind) http.HandlerFunc
	Get(kind master.Kind) http.HandlerFunc
	List(kind master.Kind) http.HandlerFunc
	Update(kind master.Kind) http.HandlerFunc
	Delete(kind master.Kind) http.HandlerFunc

	// Salary head handlers
	CreateSalaryHead(w http.ResponseWriter, r *http.Request)
	GetSalaryHead(w http.ResponseWriter, r *http.Request)
	ListSalaryHeads(w http.ResponseWriter, r *http.Request)
	UpdateSalaryHead(w http.ResponseWriter, r *http.Request)
	DeleteSalaryHead(w http.ResponseWriter, r *http.Request)
	Classification(w http.ResponseWriter, r *http.Request)
}

type masterHandlerImpl struct {
	masterService     master.MasterService
	salaryHeadService master.SalaryHeadService
	paging            Paging
}

func NewMasterHandler(masterService master.MasterService, salaryHeadService master.SalaryHeadService, paging Paging) MasterHandler {
	return &masterHandlerImpl{
		masterService:     masterService,
		salaryHeadService: salaryHeadService,
		paging:            paging,
	}
}

// ==================== DEPARTMENT / DESIGNATION HANDLERS ====================

func (h *masterHandlerImpl) Create(kind master.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req master.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		result, err := h.masterService.Create(r.Context(), kind, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.Created(w, string(kind)+" created successfully", result)
	}
}

func (h *masterHandlerImpl) Get(kind master.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		result, err := h.masterService.Get(r.Context(), kind, id)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.Success(w, result)
	}
}

func (h *masterHandlerImpl) List(kind master.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := h.paging.parseList(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		rows, total, err := h.masterService.List(r.Context(), kind, q.opts)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.SuccessWithMeta(w, rows, q.meta(total))
	}
}

func (h *masterHandlerImpl) Update(kind master.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		var req master.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}

		result, err := h.masterService.Update(r.Context(), kind, id, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		response.SuccessWithMessage(w, string(kind)+" updated successfully", result)
	}
}

func (h *masterHandlerImpl) Delete(kind master.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if err := h.masterService.Delete(r.Context(), kind, id); err != nil {
			response.HandleError(w, err)
			return
		}

		response.SuccessWithMessage(w, string(kind)+" deleted successfully", nil)
	}
}

// ==================== SALARY HEAD HANDLERS ====================

func (h *masterHandlerImpl) CreateSalaryHead(w http.ResponseWriter, r *http.Request) {
	var req salaryhead.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.salaryHeadService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary head created successfully", result)
}

func (h *masterHandlerImpl) GetSalaryHead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryHeadService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *masterHandlerImpl) ListSalaryHeads(w http.ResponseWriter, r *http.Request) {
	q, err := h.paging.parseList(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rows, total, err := h.salaryHeadService.List(r.Context(), q.opts)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, rows, q.meta(total))
}

func (h *masterHandlerImpl) UpdateSalaryHead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req salaryhead.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.salaryHeadService.Update(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary head updated successfully", result)
}

func (h *masterHandlerImpl) DeleteSalaryHead(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.salaryHeadService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary head deleted successfully", nil)
}

func (h *masterHandlerImpl) Classification(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryHeadService.Classification(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finbook/internal/core"
	"finbook/internal/service"
)

type incomeHandler struct {
	incomes *service.IncomeService
}

func (h *incomeHandler) register(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/user/{userID}", h.listByUser)
	r.Get("/{id}/user/{userID}", h.getByIDAndUser)
	r.Put("/{id}", h.update)
	r.Delete("/{id}/user/{userID}", h.delete)
	r.Get("/max/user/{userID}", h.maxByUser)
	r.Get("/min/user/{userID}", h.minByUser)
	r.Get("/greater-than/user/{userID}/{amount}", h.greaterThan)
	r.Get("/less-than/user/{userID}/{amount}", h.lessThan)
	r.Get("/description/user/{userID}", h.searchByDescription)
	r.Get("/total/user/{userID}", h.totalByUser)
	r.Get("/sum-by-month/user/{userID}", h.sumByMonth)
	r.Get("/sum-by-source/user/{userID}", h.sumBySource)
}

func (h *incomeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req core.IncomeRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	income, err := h.incomes.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "income created", income)
}

func (h *incomeHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	incomes, err := h.incomes.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "incomes retrieved", incomes)
}

func (h *incomeHandler) getByIDAndUser(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	income, err := h.incomes.GetByIDAndUser(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "income retrieved", income)
}

func (h *incomeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req core.IncomeRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	income, err := h.incomes.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "income updated", income)
}

func (h *incomeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := h.incomes.Delete(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "income deleted", nil)
}

func (h *incomeHandler) maxByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	income, err := h.incomes.MaxByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "max income retrieved", income)
}

func (h *incomeHandler) minByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	income, err := h.incomes.MinByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "min income retrieved", income)
}

func (h *incomeHandler) greaterThan(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	amount, err := floatParam(r, "amount")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	incomes, err := h.incomes.GreaterThan(r.Context(), userID, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "incomes retrieved", incomes)
}

func (h *incomeHandler) lessThan(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	amount, err := floatParam(r, "amount")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	incomes, err := h.incomes.LessThan(r.Context(), userID, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "incomes retrieved", incomes)
}

func (h *incomeHandler) searchByDescription(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	keyword := r.URL.Query().Get("keyword")
	incomes, err := h.incomes.SearchByDescription(r.Context(), userID, keyword)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "incomes retrieved", incomes)
}

func (h *incomeHandler) totalByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	total, err := h.incomes.TotalByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "total income computed", total)
}

func (h *incomeHandler) sumByMonth(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	sums, err := h.incomes.SumByMonth(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "income sums by month", sums)
}

func (h *incomeHandler) sumBySource(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	sums, err := h.incomes.SumBySource(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "income sums by source", sums)
}

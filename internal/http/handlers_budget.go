package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finbook/internal/core"
	"finbook/internal/service"
)

type budgetHandler struct {
	budgets *service.BudgetService
}

func (h *budgetHandler) register(r chi.Router) {
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
	r.Get("/count-by-month/user/{userID}", h.countByMonth)
	r.Get("/count-by-category/user/{userID}", h.countByCategory)
}

func (h *budgetHandler) create(w http.ResponseWriter, r *http.Request) {
	var req core.BudgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	budget, err := h.budgets.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "budget created", budget)
}

func (h *budgetHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	budgets, err := h.budgets.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budgets retrieved", budgets)
}

func (h *budgetHandler) getByIDAndUser(w http.ResponseWriter, r *http.Request) {
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
	budget, err := h.budgets.GetByIDAndUser(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budget retrieved", budget)
}

func (h *budgetHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req core.BudgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	budget, err := h.budgets.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budget updated", budget)
}

func (h *budgetHandler) delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.budgets.Delete(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budget deleted", nil)
}

func (h *budgetHandler) maxByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	budget, err := h.budgets.MaxByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "max budget retrieved", budget)
}

func (h *budgetHandler) minByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	budget, err := h.budgets.MinByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "min budget retrieved", budget)
}

func (h *budgetHandler) greaterThan(w http.ResponseWriter, r *http.Request) {
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
	budgets, err := h.budgets.GreaterThan(r.Context(), userID, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budgets retrieved", budgets)
}

func (h *budgetHandler) lessThan(w http.ResponseWriter, r *http.Request) {
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
	budgets, err := h.budgets.LessThan(r.Context(), userID, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budgets retrieved", budgets)
}

func (h *budgetHandler) searchByDescription(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	keyword := r.URL.Query().Get("keyword")
	budgets, err := h.budgets.SearchByDescription(r.Context(), userID, keyword)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budgets retrieved", budgets)
}

func (h *budgetHandler) totalByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	total, err := h.budgets.TotalByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "total budget computed", total)
}

func (h *budgetHandler) countByMonth(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	counts, err := h.budgets.CountByMonth(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budget counts by month", counts)
}

func (h *budgetHandler) countByCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	counts, err := h.budgets.CountByCategory(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "budget counts by category", counts)
}

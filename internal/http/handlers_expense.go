package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finbook/internal/core"
	"finbook/internal/service"
)

type expenseHandler struct {
	expenses *service.ExpenseService
}

func (h *expenseHandler) register(r chi.Router) {
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
	r.Get("/count-by-year/user/{userID}", h.countByYear)
}

func (h *expenseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req core.ExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	expense, err := h.expenses.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "expense created", expense)
}

func (h *expenseHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	expenses, err := h.expenses.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expenses retrieved", expenses)
}

func (h *expenseHandler) getByIDAndUser(w http.ResponseWriter, r *http.Request) {
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
	expense, err := h.expenses.GetByIDAndUser(r.Context(), id, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expense retrieved", expense)
}

func (h *expenseHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req core.ExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	expense, err := h.expenses.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expense updated", expense)
}

func (h *expenseHandler) delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.expenses.Delete(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expense deleted", nil)
}

func (h *expenseHandler) maxByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	expense, err := h.expenses.MaxByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "max expense retrieved", expense)
}

func (h *expenseHandler) minByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	expense, err := h.expenses.MinByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "min expense retrieved", expense)
}

func (h *expenseHandler) greaterThan(w http.ResponseWriter, r *http.Request) {
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
	expenses, err := h.expenses.GreaterThan(r.Context(), userID, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expenses retrieved", expenses)
}

func (h *expenseHandler) lessThan(w http.ResponseWriter, r *http.Request) {
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
	expenses, err := h.expenses.LessThan(r.Context(), userID, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expenses retrieved", expenses)
}

func (h *expenseHandler) searchByDescription(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	keyword := r.URL.Query().Get("keyword")
	expenses, err := h.expenses.SearchByDescription(r.Context(), userID, keyword)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expenses retrieved", expenses)
}

func (h *expenseHandler) totalByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	total, err := h.expenses.TotalByUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "total expense computed", total)
}

func (h *expenseHandler) countByMonth(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	counts, err := h.expenses.CountByMonth(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expense counts by month", counts)
}

func (h *expenseHandler) countByYear(w http.ResponseWriter, r *http.Request) {
	userID, err := int64Param(r, "userID")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	counts, err := h.expenses.CountByYear(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "expense counts by year", counts)
}

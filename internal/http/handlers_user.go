package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"finbook/internal/core"
	"finbook/internal/service"
)

type userHandler struct {
	users *service.UserService
}

func (h *userHandler) register(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.getByID)
	r.Get("/username/{username}", h.getByUsername)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *userHandler) create(w http.ResponseWriter, r *http.Request) {
	var req core.UserRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, "user created", user)
}

func (h *userHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "users retrieved", users)
}

func (h *userHandler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "user retrieved", user)
}

func (h *userHandler) getByUsername(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "user retrieved", user)
}

func (h *userHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	var req core.UserRequest
	if err := decodeBody(r, &req); err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	user, err := h.users.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "user updated", user)
}

func (h *userHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}
	if err := h.users.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, "user deleted", nil)
}

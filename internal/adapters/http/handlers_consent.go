package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/novascore/credit-engine/internal/application"
)

func (h *Handler) consentCreate(w http.ResponseWriter, r *http.Request) {
	var req application.ConsentCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "consent_create", err)
		return
	}
	res, err := h.service.ConsentCreate(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "consent_create", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) consentGet(w http.ResponseWriter, r *http.Request) {
	consentID := chi.URLParam(r, "consent_id")
	res, err := h.service.ConsentGet(r.Context(), consentID)
	if err != nil {
		writeMappedError(r.Context(), w, "consent_get", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) consentListByUser(w http.ResponseWriter, r *http.Request) {
	userReferenceID := chi.URLParam(r, "user_reference_id")
	res, err := h.service.ConsentListByUser(r.Context(), userReferenceID)
	if err != nil {
		writeMappedError(r.Context(), w, "consent_list_by_user", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) consentRevoke(w http.ResponseWriter, r *http.Request) {
	consentID := chi.URLParam(r, "consent_id")
	res, err := h.service.ConsentRevoke(r.Context(), consentID)
	if err != nil {
		writeMappedError(r.Context(), w, "consent_revoke", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

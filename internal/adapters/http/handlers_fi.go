package http

import (
	"net/http"

	"github.com/novascore/credit-engine/internal/application"
)

func (h *Handler) fiRequest(w http.ResponseWriter, r *http.Request) {
	var req application.FIRequestRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "fi_request", err)
		return
	}
	res, err := h.service.FIRequest(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "fi_request", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) fiFetch(w http.ResponseWriter, r *http.Request) {
	var req application.FIFetchRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "fi_fetch", err)
		return
	}
	res, err := h.service.FIFetch(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "fi_fetch", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

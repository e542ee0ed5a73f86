package http

import (
	"net/http"

	"github.com/novascore/credit-engine/internal/application"
)

func (h *Handler) aadhaarInitiate(w http.ResponseWriter, r *http.Request) {
	var req application.AadhaarInitiateRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "aadhaar_initiate", err)
		return
	}
	res, err := h.service.AadhaarInitiate(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "aadhaar_initiate", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) aadhaarVerify(w http.ResponseWriter, r *http.Request) {
	var req application.AadhaarVerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "aadhaar_verify", err)
		return
	}
	res, err := h.service.AadhaarVerify(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "aadhaar_verify", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

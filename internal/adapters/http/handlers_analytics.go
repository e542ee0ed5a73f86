package http

import (
	"net/http"

	"github.com/novascore/credit-engine/internal/application"
)

func (h *Handler) upiAnalyse(w http.ResponseWriter, r *http.Request) {
	var req application.UPIAnalyseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "upi_analyse", err)
		return
	}
	res, err := h.service.UPIAnalyse(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "upi_analyse", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) gstFetch(w http.ResponseWriter, r *http.Request) {
	var req application.GSTFetchRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "gst_fetch", err)
		return
	}
	res, err := h.service.GSTFetch(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "gst_fetch", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) utilityFetch(w http.ResponseWriter, r *http.Request) {
	var req application.UtilityFetchRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "utility_fetch", err)
		return
	}
	res, err := h.service.UtilityFetch(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "utility_fetch", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) behaviourQuestions(w http.ResponseWriter, r *http.Request) {
	views, ids, err := h.service.BehaviourQuestions()
	if err != nil {
		writeMappedError(r.Context(), w, "behaviour_questions", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{
		"questions":   views,
		"offered_ids": ids,
	})
}

func (h *Handler) behaviourSubmit(w http.ResponseWriter, r *http.Request) {
	var req application.BehaviourSubmitRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "behaviour_submit", err)
		return
	}
	res, err := h.service.BehaviourSubmit(req)
	if err != nil {
		writeMappedError(r.Context(), w, "behaviour_submit", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) socialConnect(w http.ResponseWriter, r *http.Request) {
	var req application.SocialConnectRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "social_connect", err)
		return
	}
	res, err := h.service.SocialConnect(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "social_connect", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) score(w http.ResponseWriter, r *http.Request) {
	var req application.ScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "score", err)
		return
	}
	res, err := h.service.Score(req)
	if err != nil {
		writeMappedError(r.Context(), w, "score", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

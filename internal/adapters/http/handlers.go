package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/novascore/credit-engine/internal/application"
)

// Handler is the HTTP adapter entrypoint, translating the transport-independent
// operation surface onto request/response bodies. It depends only on application.Service.
type Handler struct {
	service *application.Service
}

func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers every service operation under /v1 plus healthz/readyz.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/aadhaar/initiate", handler.aadhaarInitiate)
		r.Post("/aadhaar/verify", handler.aadhaarVerify)

		r.Post("/consent", handler.consentCreate)
		r.Get("/consent/{consent_id}", handler.consentGet)
		r.Get("/consent/by-user/{user_reference_id}", handler.consentListByUser)
		r.Post("/consent/{consent_id}/revoke", handler.consentRevoke)

		r.Post("/fi/request", handler.fiRequest)
		r.Post("/fi/fetch", handler.fiFetch)

		r.Post("/upi/analyse", handler.upiAnalyse)
		r.Post("/gst/fetch", handler.gstFetch)
		r.Post("/utility/fetch", handler.utilityFetch)

		r.Get("/behaviour/questions", handler.behaviourQuestions)
		r.Post("/behaviour/submit", handler.behaviourSubmit)

		r.Post("/social/connect", handler.socialConnect)

		r.Post("/score", handler.score)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

package controllers

import (
	"net/http"

	"github.com/velomarket/velomarket-backend/api/responses"
	"github.com/velomarket/velomarket-backend/api/validators"
	contactsvc "github.com/velomarket/velomarket-backend/internal/contact"
	"github.com/velomarket/velomarket-backend/pkg/logger"
)

// ContactSubmit accepts a contact form submission.
func ContactSubmit(svc contactsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactsvc.Request
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Submit(r.Context(), payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "received"})
	}
}

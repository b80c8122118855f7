package httptransport

import (
	"net/http"
	"time"

	"cm-gateway/internal/consent/models"
	"cm-gateway/pkg/platform/httputil"
)

func (h *Handler) handlePostConsentInvitation(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/consent-invitation", r.Method, time.Now())

	body, err := decodeBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	custodianID := r.Header.Get(models.HeaderConsentCustodianID)

	stored, err := h.service.Invite(r.Context(), custodianID, models.Invitation{
		ConsentRequest: body.ConsentRequest,
		Contact:        body.Contact,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "POST /consent-invitation failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Consent invitation successfully sent", stored)
}

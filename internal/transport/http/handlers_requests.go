package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"time"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/docstore"
	dErrors "cm-gateway/pkg/domain-errors"
	"cm-gateway/pkg/platform/httputil"
)

// Request identifiers come in over a header, so only a conservative character
// set is accepted.
var onlyAlphaNumeric = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// requestBody is the body of request-creating endpoints.
type requestBody struct {
	ConsentRequest docstore.Document `json:"consentRequest"`
	Contact        string            `json:"contact"`
}

func decodeBody(r *http.Request) (requestBody, error) {
	var body requestBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if errors.Is(err, io.EOF) {
		return body, dErrors.New(dErrors.CodeInvalidArgument, "missing request body")
	}
	if err != nil {
		return body, dErrors.New(dErrors.CodeInvalidArgument, "invalid request body")
	}
	return body, nil
}

func (h *Handler) handlePostConsentRequest(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/consent-request", r.Method, time.Now())

	body, err := decodeBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	custodianID := r.Header.Get(models.HeaderConsentCustodianID)

	doc, err := h.service.CreateRequest(r.Context(), custodianID, body.ConsentRequest)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "POST /consent-request failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusCreated, "Consent request successfully created", doc)
}

func (h *Handler) handleGetConsentRequest(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/consent-request", r.Method, time.Now())

	custodianID := r.Header.Get(models.HeaderConsentCustodianID)
	if custodianID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument,
			"Missing "+models.HeaderConsentCustodianID+" header parameter"))
		return
	}

	requestID := r.Header.Get(models.HeaderConsentRequestID)
	if requestID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument,
			"Missing "+models.HeaderConsentRequestID+" header parameter"))
		return
	}
	if !onlyAlphaNumeric.MatchString(requestID) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidArgument,
			"Only alphanumeric characters allowed for "+models.HeaderConsentRequestID+" header parameter"))
		return
	}

	doc, err := h.service.GetRequest(r.Context(), custodianID, requestID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "GET /consent-request failed",
			"request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK,
		"Successfully retrieved consent request "+requestID, doc)
}

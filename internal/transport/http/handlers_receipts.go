package httptransport

import (
	"net/http"
	"time"

	"cm-gateway/internal/consent/models"
	"cm-gateway/pkg/platform/httputil"
)

func (h *Handler) handleGetConsentReceipts(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/consent-receipt", r.Method, time.Now())

	query := models.ReceiptQuery{
		ConsentCustodian: r.Header.Get(models.HeaderConsentCustodianID),
		DataCustodian:    r.Header.Get(models.HeaderDataCustodianID),
		DataRecipient:    r.Header.Get(models.HeaderDataRecipientID),
		Performer:        r.Header.Get(models.HeaderPerformerID),
		Purpose:          r.URL.Query().Get("purpose"),
		Datatype:         r.URL.Query().Get("datatype"),
	}

	receipts, err := h.service.QueryReceipts(r.Context(), query)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "GET /consent-receipt failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Successfully queried consent receipts", receipts)
}

func (h *Handler) handlePostConsentReceipt(w http.ResponseWriter, r *http.Request) {
	defer h.observe("/consent-receipt", r.Method, time.Now())

	body, err := decodeBody(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	custodianID := r.Header.Get(models.HeaderConsentCustodianID)

	receipt, err := h.service.IssueReceipt(r.Context(), custodianID, body.ConsentRequest)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "POST /consent-receipt failed", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Successfully issued consent receipt", receipt)
}

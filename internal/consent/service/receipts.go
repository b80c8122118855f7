package service

import (
	"context"
	"time"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/consent/tracer"
	"cm-gateway/internal/docstore"
	dErrors "cm-gateway/pkg/domain-errors"
	"cm-gateway/pkg/validation"
)

// QueryReceipts returns the receipts matching all six query parameters. The
// parameters are validated in a fixed order so the caller always learns about
// the first missing one.
func (s *Service) QueryReceipts(ctx context.Context, query models.ReceiptQuery) ([]docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanQueryReceipts,
		tracer.String(tracer.AttrCustodianID, query.ConsentCustodian))
	var err error
	defer func() { span.End(err) }()

	const op = "queryConsentReceipts"
	ordered := []struct {
		name  string
		value string
	}{
		{models.HeaderConsentCustodianID + " header parameter", query.ConsentCustodian},
		{models.HeaderDataCustodianID + " header parameter", query.DataCustodian},
		{models.HeaderDataRecipientID + " header parameter", query.DataRecipient},
		{models.HeaderPerformerID + " header parameter", query.Performer},
		{"purpose query parameter", query.Purpose},
		{"datatype query parameter", query.Datatype},
	}
	for _, param := range ordered {
		if err = validation.Param(op, param.name, param.value); err != nil {
			return nil, err
		}
	}

	receipts, err := s.store.Query(ctx, models.ReceiptsCollection(query.ConsentCustodian), query.Selector())
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to query consent receipts")
		return nil, err
	}
	return receipts, nil
}

// IssueReceipt runs the full issuance pipeline for a consent request:
// resolve the custodian's configuration, mapper and schema, transform and
// validate the request, issue the credential, persist the receipt and its
// audit transaction, then retire the originating request. Each stage's
// failure aborts the remaining stages; earlier stages are not rolled back.
func (s *Service) IssueReceipt(ctx context.Context, custodianID string, consentRequest docstore.Document) (docstore.Document, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueReceipt,
		tracer.String(tracer.AttrCustodianID, custodianID))
	var err error
	defer func() { span.End(err) }()

	const op = "postConsentReceipt"
	if err = validation.Param(op, models.HeaderConsentCustodianID+" header parameter", custodianID); err != nil {
		return nil, err
	}
	if err = validation.Present(op, "consentRequest body parameter", consentRequest); err != nil {
		return nil, err
	}

	cfg, payload, err := s.resolvePayload(ctx, custodianID, consentRequest)
	if err != nil {
		return nil, err
	}

	credential, err := s.stageIssue(ctx, cfg, payload)
	if err != nil {
		return nil, err
	}

	receipt, err := s.stagePersistReceipt(ctx, custodianID, credential)
	if err != nil {
		return nil, err
	}

	if err = s.stagePersistTransaction(ctx, custodianID, str(credential, "id")); err != nil {
		return nil, err
	}

	if err = s.stageDeleteRequest(ctx, custodianID, str(consentRequest, docstore.IDField)); err != nil {
		return nil, err
	}

	s.metrics.ReceiptIssued()
	s.metrics.ObservePipeline(time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "consent receipt issued",
		"custodian_id", custodianID,
		"receipt_id", str(credential, "id"),
	)
	return receipt, nil
}

func (s *Service) stageIssue(ctx context.Context, cfg models.CustodianConfig, payload docstore.Document) (docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanIssueCred,
		tracer.String(tracer.AttrSchemaID, cfg.ConsentSchemaID))
	credential, err := s.issuer.IssueCredential(ctx, cfg.IssuerID, cfg.ConsentSchemaID, payload)
	span.End(err)
	if err != nil {
		s.failStage(ctx, stageIssue, "failed to issue credential", err)
		return nil, err
	}
	return credential, nil
}

func (s *Service) stagePersistReceipt(ctx context.Context, custodianID string, credential docstore.Document) (docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPersistReceipt)
	receipt := make(docstore.Document, len(credential)+1)
	for k, v := range credential {
		receipt[k] = v
	}
	id, err := s.store.Put(ctx, models.ReceiptsCollection(custodianID), receipt)
	span.End(err)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent receipt")
		s.failStage(ctx, stagePersistReceipt, "failed to save consent receipt", err)
		return nil, err
	}
	receipt[docstore.IDField] = id
	return receipt, nil
}

func (s *Service) stagePersistTransaction(ctx context.Context, custodianID, receiptID string) error {
	transaction := docstore.Document{
		"receiptID": receiptID,
		"action":    models.ActionCollect,
		"timestamp": time.Now().Unix(),
	}
	_, err := s.store.Put(ctx, models.TransactionsCollection(custodianID), transaction)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to save consent transaction")
		s.failStage(ctx, stagePersistTransaction, "failed to save consent transaction", err)
		return err
	}
	return nil
}

func (s *Service) stageDeleteRequest(ctx context.Context, custodianID, requestID string) error {
	if err := s.DeleteRequest(ctx, custodianID, requestID); err != nil {
		s.failStage(ctx, stageDeleteRequest, "failed to delete consent request", err)
		return err
	}
	return nil
}

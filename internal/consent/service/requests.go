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

// requestFields are the business fields every consent request must carry,
// checked in this order so callers always learn about the first gap.
var requestFields = []struct {
	key  string
	name string
}{
	{"performer", "performer in request body"},
	{"dataCustodian", "data custodian in request body"},
	{"dataRecipient", "data recipient in request body"},
	{"purpose", "purpose in request body"},
	{"datatype", "data type in request body"},
}

// CreateRequest validates and persists a consent request for a custodian.
// The stored document gains status=pending, a creation timestamp and its
// assigned document ID.
func (s *Service) CreateRequest(ctx context.Context, custodianID string, consentRequest docstore.Document) (docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCreateRequest,
		tracer.String(tracer.AttrCustodianID, custodianID))
	var err error
	defer func() { span.End(err) }()

	const op = "postConsentRequest"
	if err = validation.Param(op, "consent custodian ID header parameter", custodianID); err != nil {
		return nil, err
	}
	if err = validation.Present(op, "consent request in request body", consentRequest); err != nil {
		return nil, err
	}
	for _, field := range requestFields {
		if err = validation.Param(op, field.name, str(consentRequest, field.key)); err != nil {
			return nil, err
		}
	}

	doc := make(docstore.Document, len(consentRequest)+2)
	for k, v := range consentRequest {
		doc[k] = v
	}
	doc["status"] = string(models.StatusPending)
	doc["createdAt"] = time.Now().UTC().Format(time.RFC3339)

	id, err := s.store.Put(ctx, models.RequestsCollection(custodianID), doc)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to store consent request")
		return nil, err
	}
	doc[docstore.IDField] = id

	s.metrics.RequestCreated()
	s.logger.InfoContext(ctx, "consent request created",
		"custodian_id", custodianID,
		"request_id", id,
	)
	return doc, nil
}

// GetRequest returns a stored consent request by ID.
func (s *Service) GetRequest(ctx context.Context, custodianID, requestID string) (docstore.Document, error) {
	const op = "getConsentRequest"
	if err := validation.Param(op, "consent custodian ID", custodianID); err != nil {
		return nil, err
	}
	if err := validation.Param(op, "consent request ID", requestID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, models.RequestsCollection(custodianID), requestID)
}

// DeleteRequest removes a stored consent request by ID.
func (s *Service) DeleteRequest(ctx context.Context, custodianID, requestID string) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDeleteRequest,
		tracer.String(tracer.AttrCustodianID, custodianID),
		tracer.String(tracer.AttrRequestID, requestID))
	var err error
	defer func() { span.End(err) }()

	const op = "deleteConsentRequest"
	if err = validation.Param(op, "consent custodian ID", custodianID); err != nil {
		return err
	}
	if err = validation.Param(op, "consent request docID", requestID); err != nil {
		return err
	}

	if err = s.store.Delete(ctx, models.RequestsCollection(custodianID), requestID); err != nil {
		return err
	}

	s.metrics.RequestDeleted()
	s.logger.InfoContext(ctx, "consent request deleted",
		"custodian_id", custodianID,
		"request_id", requestID,
	)
	return nil
}

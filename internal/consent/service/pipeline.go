package service

import (
	"context"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/consent/schema"
	"cm-gateway/internal/consent/tracer"
	"cm-gateway/internal/consent/transform"
	"cm-gateway/internal/docstore"
)

// Pipeline stage labels used for failure metrics and log correlation.
const (
	stageConfig             = "config"
	stageMapper             = "mapper"
	stageTransform          = "transform"
	stageSchema             = "schema"
	stageValidate           = "validate"
	stageIssue              = "issue"
	stagePersistReceipt     = "persist_receipt"
	stagePersistTransaction = "persist_transaction"
	stageDeleteRequest      = "delete_request"
)

// resolvePayload runs the shared front half of the issuance pipeline:
// custodian configuration, mapper fetch, transform, schema fetch and schema
// validation. Each stage's failure aborts the remaining stages and surfaces
// that stage's error unchanged; the stage itself is recorded in logs and
// metrics, not in the error message.
func (s *Service) resolvePayload(ctx context.Context, custodianID string, consentRequest docstore.Document) (models.CustodianConfig, docstore.Document, error) {
	cfg, err := s.stageOrgConfig(ctx, custodianID)
	if err != nil {
		return models.CustodianConfig{}, nil, err
	}

	mapper, err := s.stageMapperFetch(ctx, cfg)
	if err != nil {
		return models.CustodianConfig{}, nil, err
	}

	payload, err := s.stageTransform(ctx, mapper, consentRequest)
	if err != nil {
		return models.CustodianConfig{}, nil, err
	}

	schemaDoc, err := s.stageSchemaFetch(ctx, cfg)
	if err != nil {
		return models.CustodianConfig{}, nil, err
	}

	if err := s.stageValidate(ctx, payload, schemaDoc); err != nil {
		return models.CustodianConfig{}, nil, err
	}

	return cfg, payload, nil
}

func (s *Service) stageOrgConfig(ctx context.Context, custodianID string) (models.CustodianConfig, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanCustodianConf,
		tracer.String(tracer.AttrCustodianID, custodianID))
	cfg, err := s.directory.GetOrgConfig(ctx, custodianID)
	span.End(err)
	if err != nil {
		s.failStage(ctx, stageConfig, "failed to get consent custodian configuration", err)
		return models.CustodianConfig{}, err
	}
	return cfg, nil
}

func (s *Service) stageMapperFetch(ctx context.Context, cfg models.CustodianConfig) (docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFetchMapper,
		tracer.String(tracer.AttrMapperName, cfg.MapperName))
	mapper, err := s.directory.GetMapper(ctx, cfg.MapperName)
	span.End(err)
	if err != nil {
		s.failStage(ctx, stageMapper, "failed to get consent mapper", err)
		return nil, err
	}
	return mapper, nil
}

func (s *Service) stageTransform(ctx context.Context, mapper, consentRequest docstore.Document) (docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanTransform)
	payload, err := transform.Apply(mapper, consentRequest)
	span.End(err)
	if err != nil {
		s.failStage(ctx, stageTransform, "failed to prepare consent payload", err)
		return nil, err
	}
	return payload, nil
}

func (s *Service) stageSchemaFetch(ctx context.Context, cfg models.CustodianConfig) (docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanFetchSchema,
		tracer.String(tracer.AttrSchemaID, cfg.ConsentSchemaID))
	schemaDoc, err := s.issuer.GetSchema(ctx, cfg.IssuerID, cfg.ConsentSchemaID)
	span.End(err)
	if err != nil {
		s.failStage(ctx, stageSchema, "failed to get consent schema", err)
		return nil, err
	}
	return schemaDoc, nil
}

func (s *Service) stageValidate(ctx context.Context, payload, schemaDoc docstore.Document) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanValidate)
	err := schema.Validate(payload, schemaDoc)
	span.End(err)
	if err != nil {
		s.failStage(ctx, stageValidate, "failed to validate consent request", err)
		return err
	}
	return nil
}

func (s *Service) failStage(ctx context.Context, stage, what string, err error) {
	s.metrics.PipelineFailure(stage)
	s.logger.ErrorContext(ctx, what, "stage", stage, "error", err)
}

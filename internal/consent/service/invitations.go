package service

import (
	"context"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/consent/tracer"
	"cm-gateway/internal/docstore"
	dErrors "cm-gateway/pkg/domain-errors"
	"cm-gateway/pkg/validation"
)

// Invite validates an invitation, runs the front half of the issuance
// pipeline to prove the consent request would produce a schema-conformant
// payload, persists the request for later issuance and dispatches an
// invitation to the contact. No credential is issued here.
func (s *Service) Invite(ctx context.Context, custodianID string, invitation models.Invitation) (docstore.Document, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanInvite,
		tracer.String(tracer.AttrCustodianID, custodianID))
	var err error
	defer func() { span.End(err) }()

	if len(invitation.ConsentRequest) == 0 {
		err = dErrors.New(dErrors.CodeInvalidArgument, "missing consentRequest field")
		return nil, err
	}
	if invitation.Contact == "" {
		err = dErrors.New(dErrors.CodeInvalidArgument, "missing contact field")
		return nil, err
	}
	if err = validation.Struct(&invitation); err != nil {
		return nil, err
	}

	if _, _, err = s.resolvePayload(ctx, custodianID, invitation.ConsentRequest); err != nil {
		return nil, err
	}

	stored, err := s.CreateRequest(ctx, custodianID, invitation.ConsentRequest)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save consent request", "error", err)
		return nil, err
	}

	if err = s.directory.SendInvitation(ctx, invitation.Contact, str(stored, docstore.IDField)); err != nil {
		s.logger.ErrorContext(ctx, "failed to send consent invitation", "error", err)
		err = dErrors.Wrap(err, dErrors.CodeUpstream, "failed to send consent invitation")
		return nil, err
	}

	s.metrics.InvitationSent()
	s.logger.InfoContext(ctx, "consent invitation sent",
		"custodian_id", custodianID,
		"request_id", str(stored, docstore.IDField),
	)
	return stored, nil
}

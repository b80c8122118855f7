package service

import (
	"context"
	"errors"

	"go.uber.org/mock/gomock"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/docstore"
	dErrors "cm-gateway/pkg/domain-errors"
)

func (s *ServiceSuite) expectResolvePayload() {
	s.mockDirectory.EXPECT().GetOrgConfig(gomock.Any(), "org1").Return(s.custodianConfig(), nil)
	s.mockDirectory.EXPECT().GetMapper(gomock.Any(), "consentMapper").Return(s.consentMapper(), nil)
	s.mockIssuer.EXPECT().GetSchema(gomock.Any(), "issuer-1", "consent-schema;id=1;version=0.3").
		Return(s.consentSchema(), nil)
}

func (s *ServiceSuite) TestInvite_PersistsRequestAndNotifies() {
	ctx := context.Background()
	s.expectResolvePayload()
	s.mockDirectory.EXPECT().
		SendInvitation(gomock.Any(), "patient@example.com", gomock.Any()).
		Return(nil)

	stored, err := s.service.Invite(ctx, "org1", models.Invitation{
		ConsentRequest: s.consentRequest(),
		Contact:        "patient@example.com",
	})
	s.Require().NoError(err)
	s.NotEmpty(stored[docstore.IDField])
	s.Equal("pending", stored["status"])

	requests, err := s.store.Query(ctx, models.RequestsCollection("org1"), nil)
	s.Require().NoError(err)
	s.Len(requests, 1)
}

func (s *ServiceSuite) TestInvite_MissingConsentRequest() {
	_, err := s.service.Invite(context.Background(), "org1", models.Invitation{
		Contact: "patient@example.com",
	})
	s.Require().Error(err)
	s.Equal("missing consentRequest field", err.Error())
	s.Equal(400, dErrors.StatusOf(err))
}

func (s *ServiceSuite) TestInvite_MissingContact() {
	_, err := s.service.Invite(context.Background(), "org1", models.Invitation{
		ConsentRequest: s.consentRequest(),
	})
	s.Require().Error(err)
	s.Equal("missing contact field", err.Error())
}

func (s *ServiceSuite) TestInvite_MalformedContact() {
	_, err := s.service.Invite(context.Background(), "org1", models.Invitation{
		ConsentRequest: s.consentRequest(),
		Contact:        "not-an-email",
	})
	s.Require().Error(err)
	s.Equal("contact must be a valid email", err.Error())
}

func (s *ServiceSuite) TestInvite_ValidationFailureDoesNotPersist() {
	mapper := s.consentMapper()
	delete(mapper, "version")

	s.mockDirectory.EXPECT().GetOrgConfig(gomock.Any(), "org1").Return(s.custodianConfig(), nil)
	s.mockDirectory.EXPECT().GetMapper(gomock.Any(), "consentMapper").Return(mapper, nil)
	s.mockIssuer.EXPECT().GetSchema(gomock.Any(), "issuer-1", "consent-schema;id=1;version=0.3").
		Return(s.consentSchema(), nil)

	_, err := s.service.Invite(context.Background(), "org1", models.Invitation{
		ConsentRequest: s.consentRequest(),
		Contact:        "patient@example.com",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	requests, qErr := s.store.Query(context.Background(), models.RequestsCollection("org1"), nil)
	s.Require().NoError(qErr)
	s.Empty(requests)
}

func (s *ServiceSuite) TestInvite_NotifyFailureLeavesRequestPersisted() {
	ctx := context.Background()
	s.expectResolvePayload()
	s.mockDirectory.EXPECT().
		SendInvitation(gomock.Any(), "patient@example.com", gomock.Any()).
		Return(errors.New("smtp unreachable"))

	_, err := s.service.Invite(ctx, "org1", models.Invitation{
		ConsentRequest: s.consentRequest(),
		Contact:        "patient@example.com",
	})
	s.Require().Error(err)

	requests, qErr := s.store.Query(ctx, models.RequestsCollection("org1"), nil)
	s.Require().NoError(qErr)
	s.Len(requests, 1)
}

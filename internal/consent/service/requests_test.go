package service

import (
	"context"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/docstore"
	dErrors "cm-gateway/pkg/domain-errors"
)

func (s *ServiceSuite) TestCreateRequest_PersistsWithStatusAndTimestamp() {
	ctx := context.Background()

	doc, err := s.service.CreateRequest(ctx, "org1", s.consentRequest())
	s.Require().NoError(err)

	s.Equal("pending", doc["status"])
	s.NotEmpty(doc["createdAt"])
	s.NotEmpty(doc[docstore.IDField])

	stored, err := s.service.GetRequest(ctx, "org1", doc[docstore.IDField].(string))
	s.Require().NoError(err)
	s.Equal("AOTZ129626", stored["performer"])
	s.Equal("pending", stored["status"])
}

func (s *ServiceSuite) TestCreateRequest_MissingCustodian() {
	_, err := s.service.CreateRequest(context.Background(), "", s.consentRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidArgument))
	s.Equal("Failed at postConsentRequest: missing consent custodian ID header parameter", err.Error())
}

func (s *ServiceSuite) TestCreateRequest_MissingBody() {
	_, err := s.service.CreateRequest(context.Background(), "org1", nil)
	s.Require().Error(err)
	s.Equal("Failed at postConsentRequest: missing consent request in request body", err.Error())
}

func (s *ServiceSuite) TestCreateRequest_FieldOrderFirstMissingWins() {
	cases := []struct {
		remove []string
		want   string
	}{
		{[]string{"performer", "purpose"}, "Failed at postConsentRequest: missing performer in request body"},
		{[]string{"dataCustodian", "datatype"}, "Failed at postConsentRequest: missing data custodian in request body"},
		{[]string{"dataRecipient"}, "Failed at postConsentRequest: missing data recipient in request body"},
		{[]string{"purpose"}, "Failed at postConsentRequest: missing purpose in request body"},
		{[]string{"datatype"}, "Failed at postConsentRequest: missing data type in request body"},
	}

	for _, tc := range cases {
		request := s.consentRequest()
		for _, key := range tc.remove {
			delete(request, key)
		}
		_, err := s.service.CreateRequest(context.Background(), "org1", request)
		s.Require().Error(err)
		s.Equal(tc.want, err.Error())
	}
}

func (s *ServiceSuite) TestGetRequest_NotFound() {
	_, err := s.service.GetRequest(context.Background(), "org1", "missing-id")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestGetRequest_MissingParams() {
	_, err := s.service.GetRequest(context.Background(), "", "id")
	s.Require().Error(err)
	s.Equal("Failed at getConsentRequest: missing consent custodian ID", err.Error())

	_, err = s.service.GetRequest(context.Background(), "org1", "")
	s.Require().Error(err)
	s.Equal("Failed at getConsentRequest: missing consent request ID", err.Error())
}

func (s *ServiceSuite) TestDeleteRequest_RemovesDocument() {
	ctx := context.Background()

	doc, err := s.service.CreateRequest(ctx, "org1", s.consentRequest())
	s.Require().NoError(err)
	id := doc[docstore.IDField].(string)

	s.Require().NoError(s.service.DeleteRequest(ctx, "org1", id))

	_, err = s.service.GetRequest(ctx, "org1", id)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDeleteRequest_MissingDocID() {
	err := s.service.DeleteRequest(context.Background(), "org1", "")
	s.Require().Error(err)
	s.Equal("Failed at deleteConsentRequest: missing consent request docID", err.Error())
}

func (s *ServiceSuite) TestRequestsAreScopedPerCustodian() {
	ctx := context.Background()

	doc, err := s.service.CreateRequest(ctx, "org1", s.consentRequest())
	s.Require().NoError(err)
	id := doc[docstore.IDField].(string)

	_, err = s.service.GetRequest(ctx, "org2", id)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	docs, err := s.store.Query(ctx, models.RequestsCollection("org1"), nil)
	s.Require().NoError(err)
	s.Len(docs, 1)
}

package service

import (
	"context"

	"go.uber.org/mock/gomock"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/docstore"
	dErrors "cm-gateway/pkg/domain-errors"
)

func (s *ServiceSuite) validQuery() models.ReceiptQuery {
	return models.ReceiptQuery{
		ConsentCustodian: "org1",
		DataCustodian:    "General Hospital",
		DataRecipient:    "Research Lab",
		Performer:        "AOTZ129626",
		Purpose:          "clinical research",
		Datatype:         "blood panel",
	}
}

func (s *ServiceSuite) TestQueryReceipts_ValidatesParamsInOrder() {
	cases := []struct {
		mutate func(*models.ReceiptQuery)
		want   string
	}{
		{func(q *models.ReceiptQuery) { q.ConsentCustodian = "" },
			"Failed at queryConsentReceipts: missing x-cm-consent-custodian-id header parameter"},
		{func(q *models.ReceiptQuery) { q.DataCustodian = "" },
			"Failed at queryConsentReceipts: missing x-cm-data-custodian-id header parameter"},
		{func(q *models.ReceiptQuery) { q.DataRecipient = "" },
			"Failed at queryConsentReceipts: missing x-cm-data-recipient-id header parameter"},
		{func(q *models.ReceiptQuery) { q.Performer = "" },
			"Failed at queryConsentReceipts: missing x-cm-performer-id header parameter"},
		{func(q *models.ReceiptQuery) { q.Purpose = "" },
			"Failed at queryConsentReceipts: missing purpose query parameter"},
		{func(q *models.ReceiptQuery) { q.Datatype = "" },
			"Failed at queryConsentReceipts: missing datatype query parameter"},
	}

	for _, tc := range cases {
		query := s.validQuery()
		tc.mutate(&query)
		_, err := s.service.QueryReceipts(context.Background(), query)
		s.Require().Error(err)
		s.Equal(tc.want, err.Error())
	}
}

func (s *ServiceSuite) TestQueryReceipts_FirstMissingParamWins() {
	query := s.validQuery()
	query.DataCustodian = ""
	query.Purpose = ""

	_, err := s.service.QueryReceipts(context.Background(), query)
	s.Require().Error(err)
	s.Equal("Failed at queryConsentReceipts: missing x-cm-data-custodian-id header parameter", err.Error())
}

func (s *ServiceSuite) TestQueryReceipts_ReturnsMatches() {
	ctx := context.Background()

	_, err := s.store.Put(ctx, models.ReceiptsCollection("org1"), docstore.Document{
		"id":            "did:hpass:receipt-1",
		"dataCustodian": "General Hospital",
		"dataRecipient": "Research Lab",
		"performer":     "AOTZ129626",
		"purpose":       "clinical research",
		"datatype":      "blood panel",
	})
	s.Require().NoError(err)
	_, err = s.store.Put(ctx, models.ReceiptsCollection("org1"), docstore.Document{
		"id":            "did:hpass:receipt-2",
		"dataCustodian": "General Hospital",
		"dataRecipient": "Research Lab",
		"performer":     "someone-else",
		"purpose":       "clinical research",
		"datatype":      "blood panel",
	})
	s.Require().NoError(err)

	receipts, err := s.service.QueryReceipts(ctx, s.validQuery())
	s.Require().NoError(err)
	s.Require().Len(receipts, 1)
	s.Equal("did:hpass:receipt-1", receipts[0]["id"])
}

func (s *ServiceSuite) TestIssueReceipt_FullPipeline() {
	ctx := context.Background()

	stored, err := s.service.CreateRequest(ctx, "org1", s.consentRequest())
	s.Require().NoError(err)
	requestID := stored[docstore.IDField].(string)

	s.mockDirectory.EXPECT().GetOrgConfig(gomock.Any(), "org1").Return(s.custodianConfig(), nil)
	s.mockDirectory.EXPECT().GetMapper(gomock.Any(), "consentMapper").Return(s.consentMapper(), nil)
	s.mockIssuer.EXPECT().GetSchema(gomock.Any(), "issuer-1", "consent-schema;id=1;version=0.3").
		Return(s.consentSchema(), nil)

	var issuedPayload docstore.Document
	s.mockIssuer.EXPECT().
		IssueCredential(gomock.Any(), "issuer-1", "consent-schema;id=1;version=0.3", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, data map[string]any) (map[string]any, error) {
			issuedPayload = data
			return s.issuedCredential(), nil
		})

	receipt, err := s.service.IssueReceipt(ctx, "org1", stored)
	s.Require().NoError(err)

	// Transformed payload carried the mapped fields.
	s.Equal("AOTZ129626", issuedPayload["principal"].(map[string]any)["id"])
	s.Equal("General Hospital", issuedPayload["controller"].(map[string]any)["name"])

	// Receipt returned and persisted.
	s.Equal("did:hpass:receipt-1", receipt["id"])
	s.NotEmpty(receipt[docstore.IDField])
	persisted, err := s.store.Query(ctx, models.ReceiptsCollection("org1"), nil)
	s.Require().NoError(err)
	s.Len(persisted, 1)

	// Audit transaction references the receipt.
	transactions, err := s.store.Query(ctx, models.TransactionsCollection("org1"), nil)
	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.Equal("did:hpass:receipt-1", transactions[0]["receiptID"])
	s.Equal("collect", transactions[0]["action"])
	s.NotNil(transactions[0]["timestamp"])

	// Originating request retired.
	_, err = s.service.GetRequest(ctx, "org1", requestID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestIssueReceipt_MissingCustodian() {
	_, err := s.service.IssueReceipt(context.Background(), "", s.consentRequest())
	s.Require().Error(err)
	s.Equal("Failed at postConsentReceipt: missing x-cm-consent-custodian-id header parameter", err.Error())
}

func (s *ServiceSuite) TestIssueReceipt_MissingConsentRequest() {
	_, err := s.service.IssueReceipt(context.Background(), "org1", nil)
	s.Require().Error(err)
	s.Equal("Failed at postConsentReceipt: missing consentRequest body parameter", err.Error())
}

func (s *ServiceSuite) TestIssueReceipt_ConfigFailureShortCircuits() {
	upstreamErr := dErrors.Upstream(404, "organization not found")
	s.mockDirectory.EXPECT().GetOrgConfig(gomock.Any(), "org1").
		Return(models.CustodianConfig{}, upstreamErr)

	_, err := s.service.IssueReceipt(context.Background(), "org1", s.consentRequest())
	s.Require().Error(err)
	s.Equal(404, dErrors.StatusOf(err))
	s.Equal("organization not found", err.Error())
}

func (s *ServiceSuite) TestIssueReceipt_ValidationFailureStopsBeforeIssuance() {
	mapper := s.consentMapper()
	delete(mapper, "version")

	s.mockDirectory.EXPECT().GetOrgConfig(gomock.Any(), "org1").Return(s.custodianConfig(), nil)
	s.mockDirectory.EXPECT().GetMapper(gomock.Any(), "consentMapper").Return(mapper, nil)
	s.mockIssuer.EXPECT().GetSchema(gomock.Any(), "issuer-1", "consent-schema;id=1;version=0.3").
		Return(s.consentSchema(), nil)

	_, err := s.service.IssueReceipt(context.Background(), "org1", s.consentRequest())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(`instance requires property "version"`, err.Error())

	// Nothing persisted.
	receipts, qErr := s.store.Query(context.Background(), models.ReceiptsCollection("org1"), nil)
	s.Require().NoError(qErr)
	s.Empty(receipts)
}

func (s *ServiceSuite) TestIssueReceipt_IssuanceFailurePersistsNothing() {
	s.mockDirectory.EXPECT().GetOrgConfig(gomock.Any(), "org1").Return(s.custodianConfig(), nil)
	s.mockDirectory.EXPECT().GetMapper(gomock.Any(), "consentMapper").Return(s.consentMapper(), nil)
	s.mockIssuer.EXPECT().GetSchema(gomock.Any(), "issuer-1", "consent-schema;id=1;version=0.3").
		Return(s.consentSchema(), nil)
	s.mockIssuer.EXPECT().
		IssueCredential(gomock.Any(), "issuer-1", "consent-schema;id=1;version=0.3", gomock.Any()).
		Return(nil, dErrors.Upstream(502, "signing key unavailable"))

	_, err := s.service.IssueReceipt(context.Background(), "org1", s.consentRequest())
	s.Require().Error(err)
	s.Equal(502, dErrors.StatusOf(err))

	receipts, qErr := s.store.Query(context.Background(), models.ReceiptsCollection("org1"), nil)
	s.Require().NoError(qErr)
	s.Empty(receipts)
	transactions, qErr := s.store.Query(context.Background(), models.TransactionsCollection("org1"), nil)
	s.Require().NoError(qErr)
	s.Empty(transactions)
}

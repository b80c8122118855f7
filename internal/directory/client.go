// Package directory talks to the organization directory service, which holds
// each consent custodian's configuration and the named mapper documents.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/docstore"
	"cm-gateway/internal/platform/httpclient"
	"cm-gateway/internal/platform/middleware"
	dErrors "cm-gateway/pkg/domain-errors"
)

// Client exposes the directory operations the consent service needs.
type Client interface {
	// GetOrgConfig fetches the consent configuration of an organization.
	GetOrgConfig(ctx context.Context, orgID string) (models.CustodianConfig, error)
	// GetMapper fetches a mapper document by name.
	GetMapper(ctx context.Context, name string) (docstore.Document, error)
	// SendInvitation asks the directory to deliver a consent invitation to a
	// contact address.
	SendInvitation(ctx context.Context, contact string, requestID string) error
}

// HTTPClient is the production directory client.
type HTTPClient struct {
	baseURL string
	doer    httpclient.Doer
	logger  *slog.Logger
}

// NewHTTPClient builds a directory client. doer defaults to
// http.DefaultClient when nil.
func NewHTTPClient(baseURL string, doer httpclient.Doer, logger *slog.Logger) *HTTPClient {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, doer: doer, logger: logger}
}

// envelope is the directory's uniform response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Payload json.RawMessage `json:"payload"`
}

type orgPayload struct {
	IssuerID    string `json:"issuerId"`
	ConsentInfo *struct {
		SchemaID string `json:"schemaId"`
		Mapper   string `json:"mapper"`
	} `json:"consentInfo"`
}

func (c *HTTPClient) GetOrgConfig(ctx context.Context, orgID string) (models.CustodianConfig, error) {
	var payload orgPayload
	if err := c.get(ctx, "/organization/"+url.PathEscape(orgID), &payload); err != nil {
		return models.CustodianConfig{}, err
	}

	if payload.ConsentInfo == nil {
		return models.CustodianConfig{}, dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("organization %s has no consent configuration", orgID))
	}
	if payload.IssuerID == "" {
		return models.CustodianConfig{}, dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("organization %s configuration is missing issuerId", orgID))
	}
	if payload.ConsentInfo.SchemaID == "" {
		return models.CustodianConfig{}, dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("organization %s configuration is missing schemaId", orgID))
	}
	if payload.ConsentInfo.Mapper == "" {
		return models.CustodianConfig{}, dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("organization %s configuration is missing mapper", orgID))
	}

	return models.CustodianConfig{
		OrgID:           orgID,
		IssuerID:        payload.IssuerID,
		ConsentSchemaID: payload.ConsentInfo.SchemaID,
		MapperName:      payload.ConsentInfo.Mapper,
	}, nil
}

func (c *HTTPClient) GetMapper(ctx context.Context, name string) (docstore.Document, error) {
	var payload docstore.Document
	if err := c.get(ctx, "/mapper/"+url.PathEscape(name), &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, dErrors.New(dErrors.CodeUpstream,
			fmt.Sprintf("mapper %s is empty", name))
	}
	return payload, nil
}

// SendInvitation delivers a consent invitation through the directory's
// notification channel.
//
// TODO: the directory does not expose a notification endpoint yet; until it
// does this only records the intent in the log.
func (c *HTTPClient) SendInvitation(ctx context.Context, contact string, requestID string) error {
	if c.logger != nil {
		c.logger.InfoContext(ctx, "consent invitation queued",
			"contact", contact,
			"request_id", requestID,
		)
	}
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build directory request")
	}
	if token := middleware.GetCallerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "call organization directory")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return httpclient.ErrorFromResponse(resp)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "decode directory response")
	}
	if len(env.Payload) == 0 {
		return dErrors.New(dErrors.CodeUpstream, "directory response has no payload")
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "decode directory payload")
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)

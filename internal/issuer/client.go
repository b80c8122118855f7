// Package issuer talks to the credential issuance service that signs consent
// receipts.
package issuer

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"cm-gateway/internal/docstore"
	"cm-gateway/internal/platform/httpclient"
	"cm-gateway/internal/platform/middleware"
	dErrors "cm-gateway/pkg/domain-errors"
)

// IssuerIDHeader carries the issuing organization's identity upstream.
const IssuerIDHeader = "x-hpass-issuer-id"

// Client exposes the issuance operations the consent service needs.
type Client interface {
	// GetSchema fetches a JSON schema document by identifier on behalf of an
	// issuing organization.
	GetSchema(ctx context.Context, issuerID, schemaID string) (docstore.Document, error)
	// IssueCredential signs subject data against a schema and returns the
	// issued credential.
	IssueCredential(ctx context.Context, issuerID, schemaID string, data docstore.Document) (docstore.Document, error)
}

// HTTPClient is the production issuance client.
type HTTPClient struct {
	baseURL string
	doer    httpclient.Doer
	logger  *slog.Logger
}

// NewHTTPClient builds an issuance client. doer defaults to
// http.DefaultClient when nil.
func NewHTTPClient(baseURL string, doer httpclient.Doer, logger *slog.Logger) *HTTPClient {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, doer: doer, logger: logger}
}

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Payload json.RawMessage `json:"payload"`
}

type schemaPayload struct {
	Schema docstore.Document `json:"schema"`
}

func (c *HTTPClient) GetSchema(ctx context.Context, issuerID, schemaID string) (docstore.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/schema/"+url.PathEscape(schemaID), nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build schema request")
	}
	req.Header.Set(IssuerIDHeader, issuerID)
	c.authorize(ctx, req)

	payload, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var parsed schemaPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "decode schema payload")
	}
	if len(parsed.Schema) == 0 {
		return nil, dErrors.New(dErrors.CodeUpstream, "schema "+schemaID+" is empty")
	}
	return parsed.Schema, nil
}

// credentialRequest is the issuance request body. Type is always present as
// an empty array; the credential type is selected through the query string.
type credentialRequest struct {
	SchemaID       string            `json:"schemaID"`
	Data           docstore.Document `json:"data"`
	Type           []string          `json:"type"`
	ExpirationDate string            `json:"expirationDate,omitempty"`
}

func (c *HTTPClient) IssueCredential(ctx context.Context, issuerID, schemaID string, data docstore.Document) (docstore.Document, error) {
	request := credentialRequest{
		SchemaID: schemaID,
		Data:     data,
		Type:     []string{},
	}
	// A payload that declares its own expiration date carries it onto the
	// issued credential.
	if expiry, ok := data["expirationDate"].(string); ok && expiry != "" {
		request.ExpirationDate = expiry
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "marshal credential request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/credentials?type=string", bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build credential request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(IssuerIDHeader, issuerID)
	c.authorize(ctx, req)

	payload, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var credential docstore.Document
	if err := json.Unmarshal(payload, &credential); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "decode credential payload")
	}
	if len(credential) == 0 {
		return nil, dErrors.New(dErrors.CodeUpstream, "issued credential is empty")
	}
	return credential, nil
}

func (c *HTTPClient) authorize(ctx context.Context, req *http.Request) {
	if token := middleware.GetCallerToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *HTTPClient) send(req *http.Request) (json.RawMessage, error) {
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "call credential issuer")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, httpclient.ErrorFromResponse(resp)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "decode issuer response")
	}
	if len(env.Payload) == 0 {
		return nil, dErrors.New(dErrors.CodeUpstream, "issuer response has no payload")
	}
	return env.Payload, nil
}

var _ Client = (*HTTPClient)(nil)

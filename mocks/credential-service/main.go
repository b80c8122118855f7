// Mock credential service for local development and e2e testing. Serves the
// consent schema and issues unsigned lookalike credentials.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

const defaultPort = "8082"

type envelope struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Payload any    `json:"payload,omitempty"`
}

// consentSchema is a draft-07 schema matching the consentMapper fixture in
// the org-directory mock.
var consentSchema = map[string]any{
	"$schema":  "http://json-schema.org/draft-07/schema#",
	"type":     "object",
	"required": []any{"version", "principal", "controller", "services"},
	"properties": map[string]any{
		"version":  map[string]any{"type": "string"},
		"language": map[string]any{"type": "string"},
		"jurisdiction": map[string]any{
			"type": "string",
			"enum": []any{"US"},
		},
		"principal":  map[string]any{"type": "object"},
		"controller": map[string]any{"type": "object"},
		"recipients": map[string]any{"type": "array"},
		"services":   map[string]any{"type": "array"},
	},
}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/schema/", handleSchema)
	http.HandleFunc("/credentials", handleIssue)

	log.Printf("Mock Credential Service starting on port %s", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "credential-service",
	})
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Message: "Successfully retrieved schema",
		Status:  http.StatusOK,
		Payload: map[string]any{"schema": consentSchema},
	})
}

func handleIssue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{
			Message: "method not allowed",
			Status:  http.StatusMethodNotAllowed,
		})
		return
	}

	var body struct {
		SchemaID       string         `json:"schemaID"`
		Data           map[string]any `json:"data"`
		Type           []string       `json:"type"`
		ExpirationDate string         `json:"expirationDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{
			Message: "invalid request body",
			Status:  http.StatusBadRequest,
		})
		return
	}

	issuerID := r.Header.Get("x-hpass-issuer-id")
	if issuerID == "" {
		writeJSON(w, http.StatusBadRequest, envelope{
			Message: "missing x-hpass-issuer-id header parameter",
			Status:  http.StatusBadRequest,
		})
		return
	}

	credential := map[string]any{
		"id":           fmt.Sprintf("did:hpass:%s", uuid.New().String()),
		"type":         append([]string{"VerifiableCredential"}, body.Type...),
		"issuer":       issuerID,
		"issuanceDate": time.Now().UTC().Format(time.RFC3339),
		"credentialSchema": map[string]any{
			"id":   body.SchemaID,
			"type": "JsonSchemaValidator2018",
		},
		"credentialSubject": body.Data,
		"proof": map[string]any{
			"type":               "Ed25519Signature2018",
			"created":            time.Now().UTC().Format(time.RFC3339),
			"verificationMethod": fmt.Sprintf("did:hpass:%s#key-1", issuerID),
			"jws":                "mock-signature-not-for-production",
		},
	}
	if body.ExpirationDate != "" {
		credential["expirationDate"] = body.ExpirationDate
	}

	writeJSON(w, http.StatusOK, envelope{
		Message: "Successfully issued credential",
		Status:  http.StatusOK,
		Payload: credential,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

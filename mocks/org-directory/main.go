// Mock organization directory for local development and e2e testing. Serves
// the custodian configuration and mapper fixtures the consent gateway needs.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

const defaultPort = "8081"

type envelope struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Payload any    `json:"payload,omitempty"`
}

// testOrgs contains predefined custodian configurations. The "magic" org IDs
// allow e2e tests to control the mock's behavior.
var testOrgs = map[string]any{
	"org1": map[string]any{
		"issuerId": "issuer-1",
		"consentInfo": map[string]any{
			"schemaId": "consent-schema;id=1;version=0.3",
			"mapper":   "consentMapper",
		},
	},
	// Broken configuration for negative-path tests.
	"org-no-consent": map[string]any{
		"issuerId": "issuer-1",
	},
}

var testMappers = map[string]any{
	"consentMapper": map[string]any{
		"version":  "KI-CR-v3",
		"language": "en",
		"principal": map[string]any{
			"id": "$.performer",
		},
		"controller": map[string]any{
			"name": "$.dataCustodian",
		},
		"recipients": []any{
			map[string]any{"name": "$.dataRecipient"},
		},
		"services": []any{
			map[string]any{
				"purposes": []any{
					map[string]any{
						"description": "$.purpose",
						"datatype":    "$.datatype",
					},
				},
			},
		},
	},
}

func main() {
	port := getEnv("PORT", defaultPort)

	http.HandleFunc("/health", handleHealth)
	http.HandleFunc("/organization/", handleOrganization)
	http.HandleFunc("/mapper/", handleMapper)

	log.Printf("Mock Organization Directory starting on port %s", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "org-directory",
	})
}

func handleOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := strings.TrimPrefix(r.URL.Path, "/organization/")

	org, ok := testOrgs[orgID]
	if !ok {
		writeJSON(w, http.StatusNotFound, envelope{
			Message: "organization not found",
			Status:  http.StatusNotFound,
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Message: "Successfully retrieved organization",
		Status:  http.StatusOK,
		Payload: org,
	})
}

func handleMapper(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/mapper/")

	mapper, ok := testMappers[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, envelope{
			Message: "mapper not found",
			Status:  http.StatusNotFound,
		})
		return
	}

	writeJSON(w, http.StatusOK, envelope{
		Message: "Successfully retrieved mapper",
		Status:  http.StatusOK,
		Payload: mapper,
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

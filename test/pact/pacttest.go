//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "petguard-api"
	ConsumerName = "shelter-portal"

	StateShelterBaseline = "shelter pact-shelter is registered"
	StatePetExists       = "pact-shelter holds pet 1"
	StatePetMissing      = "pact-shelter holds no pet 404"
)

const (
	ExistingPetID int64 = 1
	MissingPetID  int64 = 404

	ShelterUsername = "pact-shelter"
	ShelterPassword = "pact-pass"

	// BearerToken is the placeholder the consumer sends. The provider swaps it for a live session token.
	BearerToken = "pact-session-token"
)

const (
	examplePetName = "Fluffy Pact Cat"
	examplePhone   = "+55 61 98888-0000"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the shelter portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePetPayload is the createPet body shared by both sides of the contract.
func ExamplePetPayload() map[string]any {
	return map[string]any{
		"name":        examplePetName,
		"kind":        "CAT",
		"sex":         "FEMALE",
		"height":      "SMALL",
		"temperament": "FRIENDLY",
		"breed":       "Siamese",
		"age":         2,
		"phone":       examplePhone,
		"alimentation": map[string]any{
			"qtd":       "SMALL",
			"food":      "kibble",
			"frequency": 2,
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

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
	ProviderName = "booking-api"
	ConsumerName = "booking-portal"

	StateExcursionExists  = "excursion exc-pact exists"
	StateExcursionMissing = "no excursion exc-missing"
	StateOrdersExist      = "excursion orders exist"
)

const (
	ExistingExcursionID = "exc-pact"
	MissingExcursionID  = "exc-missing"
	AdminToken          = "pact-admin-token"

	// TravelDate stays in the future for the lifetime of the contract.
	TravelDate = "2099-01-15"
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

// PactFile returns the canonical pact file path for the booking portal consumer.
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

// ExampleExcursionRequest is the booking form the portal submits.
func ExampleExcursionRequest(excursionID string) map[string]any {
	return map[string]any{
		"excursionId": excursionID,
		"fullName":    "Pact Traveller",
		"email":       "pact.traveller@example.com",
		"phone":       "+18095550000",
		"adults":      2,
		"children":    1,
		"travelDate":  TravelDate,
		"hotelName":   "Pact Resort",
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

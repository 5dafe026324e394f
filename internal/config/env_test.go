package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEnvFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func TestLoadDotEnvSetsCredentialKeys(t *testing.T) {
	path := writeEnvFile(t, ""+
		"APCA_API_KEY_ID=abc123\n"+
		"APCA_API_SECRET_KEY=shh\n"+
		"APCA_API_BASE_URL=https://paper-api.alpaca.markets\n")
	clearEnv(t, "APCA_API_KEY_ID", "APCA_API_SECRET_KEY", "APCA_API_BASE_URL")
	defer clearEnv(t, "APCA_API_KEY_ID", "APCA_API_SECRET_KEY", "APCA_API_BASE_URL")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv error: %v", err)
	}

	if got := os.Getenv("APCA_API_KEY_ID"); got != "abc123" {
		t.Fatalf("expected key to be set, got %q", got)
	}
	if got := os.Getenv("APCA_API_SECRET_KEY"); got != "shh" {
		t.Fatalf("expected secret to be set, got %q", got)
	}
	if got := os.Getenv("APCA_API_BASE_URL"); got != "https://paper-api.alpaca.markets" {
		t.Fatalf("expected base URL to be set, got %q", got)
	}
}

func TestLoadDotEnvSkipsCommentsAndMalformedLines(t *testing.T) {
	path := writeEnvFile(t, ""+
		"# paper trading credentials\n"+
		"\n"+
		"NOT_AN_ASSIGNMENT\n"+
		"  APCA_API_KEY_ID = padded  \n")
	clearEnv(t, "APCA_API_KEY_ID", "NOT_AN_ASSIGNMENT")
	defer clearEnv(t, "APCA_API_KEY_ID")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv error: %v", err)
	}

	if _, exists := os.LookupEnv("NOT_AN_ASSIGNMENT"); exists {
		t.Fatalf("line without = should be ignored")
	}
	if got := os.Getenv("APCA_API_KEY_ID"); got != "padded" {
		t.Fatalf("expected whitespace trimmed from key and value, got %q", got)
	}
}

func TestLoadDotEnvNeverOverridesProcessEnv(t *testing.T) {
	path := writeEnvFile(t, "APCA_API_KEY_ID=from_file\n")
	if err := os.Setenv("APCA_API_KEY_ID", "from_env"); err != nil {
		t.Fatalf("set env: %v", err)
	}
	defer clearEnv(t, "APCA_API_KEY_ID")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv error: %v", err)
	}

	if got := os.Getenv("APCA_API_KEY_ID"); got != "from_env" {
		t.Fatalf("expected process env to win, got %q", got)
	}
}

func TestLoadDotEnvIfPresentToleratesMissingFile(t *testing.T) {
	// Must not panic or leak an error; a bot without a .env is normal.
	loadDotEnvIfPresent(filepath.Join(t.TempDir(), "nope.env"))
}

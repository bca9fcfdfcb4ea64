package config

import (
	"os"
	"strings"
	"testing"
)

func TestApplyEnvFile(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"",
		"PLAIN=value",
		"export EXPORTED=yes",
		`QUOTED="with spaces"`,
		"ALREADY_SET=overridden",
		"no_equals_line",
		"  SPACED  =  trimmed  ",
	}, "\n")

	t.Setenv("ALREADY_SET", "original")
	for _, key := range []string{"PLAIN", "EXPORTED", "QUOTED", "SPACED"} {
		os.Unsetenv(key)
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	if err := applyEnvFile(strings.NewReader(input)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	checks := map[string]string{
		"PLAIN":       "value",
		"EXPORTED":    "yes",
		"QUOTED":      "with spaces",
		"SPACED":      "trimmed",
		"ALREADY_SET": "original",
	}
	for key, want := range checks {
		if got := os.Getenv(key); got != want {
			t.Fatalf("expected %s=%q, got %q", key, want, got)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port == "" {
		t.Fatal("expected default port")
	}
	if len(cfg.KafkaBrokers) == 0 {
		t.Fatal("expected default kafka brokers")
	}
	if cfg.DecisionTopic == cfg.DeadLetterTopic {
		t.Fatal("decision and dead-letter topics must differ")
	}
	if cfg.ReconcileAttempts <= 0 {
		t.Fatal("expected positive reconcile attempts")
	}
}

package auth

import (
	"errors"
	"testing"
)

func TestResolverPriorityOrder(t *testing.T) {
	t.Setenv("SLACKCTL_TEST_TOKEN", "xoxb-from-env")

	result, err := NewResolver().
		WithFlagValue("xoxb-from-flag").
		WithEnvs("SLACKCTL_TEST_TOKEN").
		Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if result.Token != "xoxb-from-flag" {
		t.Errorf("expected flag to win, got %q from %s", result.Token, result.Name)
	}

	if result.Source != SourceFlag {
		t.Errorf("expected SourceFlag, got %s", result.Source)
	}
}

func TestResolverFallsThroughEmptySources(t *testing.T) {
	t.Setenv("SLACKCTL_TEST_TOKEN", "xoxb-from-env")

	result, err := NewResolver().
		WithFlagValue("").
		WithEnvs("SLACKCTL_TEST_MISSING", "SLACKCTL_TEST_TOKEN").
		Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if result.Token != "xoxb-from-env" {
		t.Errorf("expected env token, got %q", result.Token)
	}

	if result.Source != SourceEnv {
		t.Errorf("expected SourceEnv, got %s", result.Source)
	}
}

func TestResolverCustomProvider(t *testing.T) {
	result, err := NewResolver().
		WithProvider(func() (string, string, error) {
			return "xoxp-stored", "store:default", nil
		}).
		Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if result.Source != SourceStore {
		t.Errorf("expected SourceStore, got %s", result.Source)
	}
}

func TestResolverNoToken(t *testing.T) {
	_, err := NewResolver().WithFlagValue("").Resolve()
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

package workflow_test

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
	"bitbucket.org/mmdatafocus/pawnshop_backend/workflow"
)

func TestHoldExpiryStandard(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry, err := workflow.HoldExpiry(models.HoldChoiceStandard, nil, now)
	if err != nil {
		t.Fatalf("HoldExpiry(standard): %v", err)
	}
	want := now.AddDate(0, 0, 14)
	if !expiry.Equal(want) {
		t.Fatalf("expected %s; got %s", want, expiry)
	}
}

func TestHoldExpiryExtended(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry, err := workflow.HoldExpiry(models.HoldChoiceExtended, nil, now)
	if err != nil {
		t.Fatalf("HoldExpiry(extended): %v", err)
	}
	want := now.AddDate(0, 0, 30)
	if !expiry.Equal(want) {
		t.Fatalf("expected %s; got %s", want, expiry)
	}
}

func TestHoldExpiryImmediate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry, err := workflow.HoldExpiry(models.HoldChoiceImmediate, nil, now)
	if err != nil {
		t.Fatalf("HoldExpiry(immediate): %v", err)
	}
	if !expiry.Equal(now) {
		t.Fatalf("expected %s; got %s", now, expiry)
	}
}

func TestHoldExpiryCustom(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	custom := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	expiry, err := workflow.HoldExpiry(models.HoldChoiceCustom, &custom, now)
	if err != nil {
		t.Fatalf("HoldExpiry(custom): %v", err)
	}
	if !expiry.Equal(custom) {
		t.Fatalf("expected %s; got %s", custom, expiry)
	}
}

func TestHoldExpiryCustomWithoutDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if _, err := workflow.HoldExpiry(models.HoldChoiceCustom, nil, now); err == nil {
		t.Fatalf("expected error for custom choice without a date")
	}
}

func TestHoldExpiryInvalidChoice(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if _, err := workflow.HoldExpiry(models.HoldChoice("forever"), nil, now); err == nil {
		t.Fatalf("expected error for invalid hold choice")
	}
}

package main

import (
	"testing"
	"time"
)

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("15/03/2024")
	if err != nil {
		t.Fatalf("parseDateFlag: %v", err)
	}
	want := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got, err := parseDateFlag(""); err != nil || !got.IsZero() {
		t.Fatalf("empty bound must stay open: %v %v", got, err)
	}

	if _, err := parseDateFlag("2024-03-15"); err == nil {
		t.Fatal("ISO dates must be rejected")
	}
}

func TestConfirmAssumeYes(t *testing.T) {
	old := assumeYes
	defer func() { assumeYes = old }()

	assumeYes = true
	if !confirm("nuke everything?") {
		t.Fatal("--yes must skip the prompt")
	}
}

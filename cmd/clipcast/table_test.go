package main

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "-"},
		{-1, "-"},
		{5, "5s"},
		{12.34, "12.3s"},
		{90, "1m30s"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.seconds); got != tc.want {
			t.Errorf("formatDuration(%f) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestFormatAge(t *testing.T) {
	if got := formatAge(time.Time{}); got != "-" {
		t.Fatalf("zero time = %q", got)
	}
	if got := formatAge(time.Now().Add(-30 * time.Second)); got != "30s ago" {
		t.Fatalf("30s = %q", got)
	}
	if got := formatAge(time.Now().Add(-3 * time.Hour)); got != "3h ago" {
		t.Fatalf("3h = %q", got)
	}
	if got := formatAge(time.Now().Add(-49 * time.Hour)); got != "2d ago" {
		t.Fatalf("49h = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("a very long title indeed", 10); got != "a very ..." {
		t.Fatalf("truncate long = %q", got)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"submit", "list", "status", "show", "highlights", "plan", "remove", "config", "preflight", "run"} {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}

package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapClassifies(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := Wrap(ErrExternalTool, "extracting_highlights", "cut clip", "ffmpeg failed", base)

	if !errors.Is(err, ErrExternalTool) {
		t.Fatal("expected ErrExternalTool marker")
	}
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped cause to survive")
	}
	want := "external tool failure: extracting_highlights: cut clip: ffmpeg failed: exit status 1"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrValidation, "generating_content_plan", "validate inputs", "no highlights available", nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected ErrValidation marker")
	}
	want := "validation failure: generating_content_plan: validate inputs: no highlights available"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrTransient, "", "", "", nil)
	if err.Error() != "transient failure: unspecified failure" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestClassificationLabel(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{Wrap(ErrValidation, "s", "op", "m", nil), "validation"},
		{Wrap(ErrExternalTool, "s", "op", "m", nil), "external_tool"},
		{Wrap(ErrTimeout, "s", "op", "m", nil), "timeout"},
		{errors.New("plain"), "unclassified"},
	}
	for _, tc := range cases {
		if got := ClassificationLabel(tc.err); got != tc.want {
			t.Errorf("ClassificationLabel(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestContextCarriage(t *testing.T) {
	ctx := WithJobID(t.Context(), "job-1")
	ctx = WithStage(ctx, "analyzing")
	ctx = WithRequestID(ctx, "req-1")

	if id, ok := JobIDFromContext(ctx); !ok || id != "job-1" {
		t.Fatalf("job id = %q, %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "analyzing" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if id, ok := RequestIDFromContext(ctx); !ok || id != "req-1" {
		t.Fatalf("request id = %q, %v", id, ok)
	}
	if _, ok := JobIDFromContext(t.Context()); ok {
		t.Fatal("empty context should carry no job id")
	}
}

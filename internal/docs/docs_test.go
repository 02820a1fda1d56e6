package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	want := []string{"config", "curation", "shortcuts", "views"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	body, ok := Get(" Shortcuts ")
	if !ok || !strings.HasPrefix(body, "# Shortcuts") {
		t.Fatalf("expected shortcuts doc, got ok=%v", ok)
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("expected unknown topic to be missing")
	}
}

package codegen

import "testing"

func TestLabels(t *testing.T) {
	l := NewLabels()

	first := l.Next("Then", "End")
	if first[0] != "Then_0" || first[1] != "End_0" {
		t.Fatalf("unexpected labels %v", first)
	}

	second := l.Next("Then", "End")
	if second[0] != "Then_1" || second[1] != "End_1" {
		t.Fatalf("unexpected labels %v", second)
	}

	if l.Issued() != 2 {
		t.Fatalf("expected 2 ids, got %d", l.Issued())
	}
}

func TestLabels_SkipTo(t *testing.T) {
	l := NewLabels()
	l.SkipTo(5)
	l.SkipTo(2)

	if got := l.Next("Then")[0]; got != "Then_5" {
		t.Fatalf("expected Then_5, got %s", got)
	}
	if l.Issued() != 6 {
		t.Fatalf("expected 6 ids, got %d", l.Issued())
	}
}

package enums

import "testing"

func TestStatusValidation(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusResolved} {
		if !s.IsValid() {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	if Status("Closed").IsValid() {
		t.Fatal("unexpected status accepted")
	}
	if _, err := ParseStatus("In Progress"); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := ParseStatus("in progress"); err == nil {
		t.Fatal("status parsing must be case sensitive")
	}
}

func TestCategoryValidation(t *testing.T) {
	if len(Categories()) != 8 {
		t.Fatalf("expected 8 categories, got %d", len(Categories()))
	}
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Fatalf("expected %q to be valid", c)
		}
	}
	if Category("Potholes").IsValid() {
		t.Fatal("unexpected category accepted")
	}
	if _, err := ParseCategory("Parks & Recreation"); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
}

func TestPriorityValidation(t *testing.T) {
	if !PriorityHigh.IsValid() {
		t.Fatal("expected High to be valid")
	}
	if Priority("Critical").IsValid() {
		t.Fatal("unexpected priority accepted")
	}
	if _, err := ParsePriority("Medium"); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
}

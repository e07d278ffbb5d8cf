package tier

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Club ACE", "club-ace"},
		{"club-ace", "club-ace"},
		{"  Formacion   por Fases ", "formacion-por-fases"},
		{"MENTORIA", "mentoria"},
		{"", ""},
		{"   ", ""},
		{"single\tcourse", "single-course"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Club ACE", "Formacion por Fases", "diplomatura", "a  b   c", ""}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestLookup(t *testing.T) {
	table := DefaultTable()

	name, ok := table.Lookup("Club ACE")
	if !ok || name != "Club ACE" {
		t.Fatalf("expected Club ACE, got %q (ok=%v)", name, ok)
	}
	if _, ok := table.Lookup("not-a-real-tag"); ok {
		t.Fatalf("expected unmapped tag to miss")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultTable().Validate(); err != nil {
		t.Fatalf("default table should validate: %v", err)
	}
	if err := (Table{}).Validate(); err == nil {
		t.Fatalf("empty table should not validate")
	}
	if err := (Table{"Club ACE": "Club ACE"}).Validate(); err == nil {
		t.Fatalf("denormalized key should not validate")
	}
	if err := (Table{"club-ace": ""}).Validate(); err == nil {
		t.Fatalf("empty tier name should not validate")
	}
}

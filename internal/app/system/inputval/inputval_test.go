package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},
		{"a@b.co", true},
		{"user@localhost", true}, // RFC 5322 allows single-label domains

		// Invalid emails - empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid emails - missing parts
		{"user", false},
		{"user@", false},
		{"@example.com", false},

		// Invalid emails - malformed local or domain
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},

		// Display-name format is rejected; we store bare addresses
		{"User Name <user@example.com>", false},

		// Invalid emails - embedded spaces
		{"user @example.com", false},
		{"user@ example.com", false},
		{"user@exam ple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate_StructTags(t *testing.T) {
	type shiftForm struct {
		Name  string `validate:"required" label:"Shift name"`
		Start string `validate:"required,timeofday" label:"Start time"`
		End   string `validate:"required,timeofday" label:"End time"`
	}

	t.Run("valid", func(t *testing.T) {
		res := Validate(shiftForm{Name: "Morning", Start: "06:00", End: "14:00"})
		if res.HasErrors() {
			t.Fatalf("unexpected errors: %v", res.Errors)
		}
		if res.First() != "" {
			t.Errorf("First() = %q, want empty", res.First())
		}
	})

	t.Run("missing required uses label", func(t *testing.T) {
		res := Validate(shiftForm{Start: "06:00", End: "14:00"})
		if !res.HasErrors() {
			t.Fatal("expected errors for missing name")
		}
		if res.First() != "Shift name is required." {
			t.Errorf("First() = %q, want %q", res.First(), "Shift name is required.")
		}
	})

	t.Run("bad time of day", func(t *testing.T) {
		res := Validate(shiftForm{Name: "Morning", Start: "6am", End: "14:00"})
		if !res.HasErrors() {
			t.Fatal("expected errors for bad start time")
		}
		if res.Errors[0].Field != "Start time" {
			t.Errorf("Field = %q, want %q", res.Errors[0].Field, "Start time")
		}
	})
}

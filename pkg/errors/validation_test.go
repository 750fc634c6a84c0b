package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single letter", "X", false},
		{"word", "Sinus", false},
		{"trailing digits", "W12", false},
		{"underscore", "_latent", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"leading digit", "1X", true},
		{"digit in middle", "X1a", true},
		{"prime", "X'", true},
		{"space", "my node", true},
		{"arrow", "A->B", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateNodeName(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateNodeNames(t *testing.T) {
	if err := ValidateNodeNames([]string{"X", "Y", "M"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateNodeNames([]string{"X", "Y", "X"}); err == nil {
		t.Error("duplicate names should be rejected")
	}
	if err := ValidateNodeNames([]string{"X", "9"}); err == nil {
		t.Error("invalid names should be rejected")
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "Front-door graph", false},
		{"unicode", "Graphe d'été", false},
		{"quote", `say "hi"`, true},
		{"newline", "a\nb", true},
		{"too long", strings.Repeat("t", 300), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGraphSize(t *testing.T) {
	if err := ValidateGraphSize(10, 0); err != nil {
		t.Errorf("max 0 should disable the check: %v", err)
	}
	if err := ValidateGraphSize(10, 10); err != nil {
		t.Errorf("at the limit: %v", err)
	}
	err := ValidateGraphSize(11, 10)
	if !Is(err, ErrCodeInvalidGraph) {
		t.Errorf("ValidateGraphSize(11, 10) = %v, want INVALID_GRAPH", err)
	}
}

package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "plot-A", false},
		{"dotted", "tree-plot-20x20.v2", false},
		{"uuid", "0b9b9f38-3a0e-4d4c-8a73-2f1f4c1a9d10", false},
		{"underscore", "plot_07", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"leading dash", "-plot", true},
		{"space", "plot A", true},
		{"slash", "plot/A", true},
		{"null byte", "plot\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("plot id", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateSpeciesName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"binomial", "Shorea robusta", false},
		{"morphospecies", "Ficus sp. 2", false},
		{"unicode", "Acacia karroo × nilotica", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"control char", "Shorea\x01robusta", true},
		{"too long", strings.Repeat("x", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpeciesName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpeciesName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "catalog/plots.toml", false},
		{"valid filename only", "blueprints.toml", false},
		{"valid with dots", "v1.2.3/catalog.toml", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidBlueprint,
		ErrCodeInvalidShape,
		ErrCodeInvalidPath,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeBlueprintNotFound,
		ErrCodePlotNotFound,
		ErrCodeFileNotFound,
		ErrCodeConflict,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

package validation

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{format: "pretty"},
		{format: "csv"},
		{format: "json"},
		{format: "", expectErr: true},
		{format: "PRETTY", expectErr: true},
		{format: "Json", expectErr: true},
		{format: " csv ", expectErr: true},
		{format: "xlsx", expectErr: true},
		{format: "pdf", expectErr: true},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if tt.expectErr && err == nil {
				t.Errorf("ValidateOutputFormat(%q) expected error but got none", tt.format)
			}
			if !tt.expectErr && err != nil {
				t.Errorf("ValidateOutputFormat(%q) unexpected error = %v", tt.format, err)
			}
		})
	}
}

func TestValidateOutputFormatErrorNamesChoices(t *testing.T) {
	err := ValidateOutputFormat("xlsx")
	if err == nil {
		t.Fatal("Expected error for xlsx")
	}
	for _, want := range []string{"pretty", "csv", "json", "xlsx"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error %q does not mention %q", err.Error(), want)
		}
	}
}

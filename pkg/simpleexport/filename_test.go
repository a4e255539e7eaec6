package simpleexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "results.csv", "results.csv"},
		{"uppercase", "Results.CSV", "results.csv"},
		{"spaces", "my search results.csv", "my_search_results.csv"},
		{"special characters", "we/ird: name?.zip", "we_ird_name.zip"},
		{"no extension", "README", "readme"},
		{"hidden file", ".env", "env"},
		{"dashes kept", "year-2026-export.json", "year-2026-export.json"},
		{"only junk", "???", "data"},
		{"empty", "", "data"},
		{"unicode letters kept", "Üexport.csv", "üexport.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SafeFileName(tt.input))
		})
	}
}

package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectScriptLanguages(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		expected []string
	}{
		{"latin only", "plain english text", []string{"eng"}},
		{"empty sample", "", []string{"eng"}},
		{"devanagari", "अग्निमीळे पुरोहितं", []string{"san", "eng"}},
		{"mixed scripts", "invoice क्रमांक 42", []string{"san", "eng"}},
		{"digits and punctuation", "12/31/2026 !!", []string{"eng"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectScriptLanguages(tt.sample))
		})
	}
}

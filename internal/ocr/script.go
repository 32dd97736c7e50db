package ocr

// DetectScriptLanguages picks the OCR language set for a text sample. It is a
// single Unicode-range test, not language identification: any rune in the
// Devanagari block selects Sanskrit, and English is always part of the set so
// recognition runs multi-language.
func DetectScriptLanguages(sample string) []string {
	for _, r := range sample {
		if r >= 0x0900 && r <= 0x097F {
			return []string{"san", "eng"}
		}
	}
	return []string{"eng"}
}

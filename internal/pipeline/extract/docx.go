package extract

import (
	"fmt"

	"github.com/lu4p/cat"
)

// extractDocx reads a .docx (also .odt, .rtf or plaintext) file and returns
// the content as a string.
func extractDocx(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract docx: %w", err)
	}
	return text, nil
}

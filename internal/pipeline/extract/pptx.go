package extract

import (
	"bytes"
	"fmt"

	"code.sajari.com/docconv"
)

// extractPptx pulls the slide text out of a presentation. Shape texts within
// a slide come joined with spaces, slides with newlines.
func extractPptx(buf []byte) (string, error) {
	res, err := docconv.Convert(bytes.NewReader(buf), mimePptx, false)
	if err != nil {
		return "", fmt.Errorf("failed to extract pptx: %w", err)
	}
	return res.Body, nil
}

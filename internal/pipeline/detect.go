package pipeline

import (
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/aksharatantra/multidecode/internal/domain/docmodel"
)

// ErrUnknownFileType means content-signature sniffing matched nothing usable;
// the pipeline aborts before any extraction is attempted.
var ErrUnknownFileType = errors.New("unable to determine file type")

// DetectFileType sniffs the buffer's content signature.
func DetectFileType(buf []byte) (docmodel.FileType, error) {
	if len(buf) == 0 {
		return docmodel.FileType{}, ErrUnknownFileType
	}
	mt := mimetype.Detect(buf)
	if mt.Is("application/octet-stream") {
		return docmodel.FileType{}, ErrUnknownFileType
	}
	return docmodel.FileType{
		MIME: mt.String(),
		Ext:  strings.TrimPrefix(mt.Extension(), "."),
	}, nil
}

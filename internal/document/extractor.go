package document

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mkravchenko/legal-assistant-backend/internal/rag"
	"github.com/mkravchenko/legal-assistant-backend/pkg/textextract"
)

// ExtractText pulls plain text from an uploaded file, choosing the
// extraction route from the file name and declared content type. Image
// files go through OCR; legacy .doc files are decoded byte-for-byte since
// there is no parser for them; anything unrecognized is treated as UTF-8
// text.
func ExtractText(ctx context.Context, data []byte, fileName, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	switch {
	case ext == ".pdf" || contentType == "application/pdf":
		return extractWithReader(data, ".pdf")
	case ext == ".docx":
		return extractWithReader(data, ".docx")
	case ext == ".txt" || strings.HasPrefix(contentType, "text/"):
		return string(bytes.TrimSpace(data)), nil
	case ext == ".doc":
		return decodeLatin1(data), nil
	case rag.IsImageFile(fileName):
		text, err := RunOCR(ctx, data)
		if err != nil {
			return "", fmt.Errorf("ocr %s: %w", fileName, err)
		}
		return text, nil
	default:
		return string(bytes.TrimSpace(data)), nil
	}
}

func extractWithReader(data []byte, fileType string) (string, error) {
	extracted, err := textextract.Extract(bytes.NewReader(data), int64(len(data)), fileType)
	if err != nil {
		return "", err
	}
	return extracted.Content, nil
}

// decodeLatin1 maps every byte to its Latin-1 code point. Binary .doc
// containers carry their text inline, so this salvages readable content
// without a real parser.
func decodeLatin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}

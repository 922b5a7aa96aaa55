package document

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const ocrTimeout = 2 * time.Minute

// RunOCR recognizes text in an image with the tesseract binary, reading the
// image from stdin and writing the result to stdout. Recognition covers
// Russian and English; tesseract must be installed on the host.
func RunOCR(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "tesseract", "stdin", "stdout", "-l", "rus+eng")
	cmd.Stdin = bytes.NewReader(image)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, stderr.String())
	}

	return strings.TrimSpace(out.String()), nil
}

// Package extractor pulls plain text out of uploaded study material so
// it can seed a generation prompt.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxChars caps how much extracted text feeds the prompt. Longer
// documents are truncated, not rejected.
const MaxChars = 6000

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrEmpty       = errors.New("file contains no extractable text")
)

type Extractor interface {
	Extract(name string, data []byte) (string, error)
}

// PlainText handles .txt, .md and .text uploads. Other formats would
// slot in as further Extractor implementations.
type PlainText struct{}

func (PlainText) Extract(name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md", ".text":
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte("?"))
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrEmpty
	}
	if r := []rune(text); len(r) > MaxChars {
		text = string(r[:MaxChars])
	}
	return text, nil
}

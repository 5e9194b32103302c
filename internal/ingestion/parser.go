package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/careerkb/profile-agent/internal/errs"
)

// Document is raw input text before chunking.
type Document struct {
	Filename string
	Content  string
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads a plain-text or markdown file. Binary formats such as
// PDF and DOCX are out of scope and rejected by extension.
func (p *Parser) ParseFile(path string) (*Document, error) {
	path = strings.TrimSpace(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".md" {
		return nil, errs.Wrap(errs.ErrUnsupportedInput,
			fmt.Errorf("unsupported file type %q (expected .txt or .md)", ext))
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return &Document{
		Filename: filepath.Base(path),
		Content:  string(bytes),
	}, nil
}

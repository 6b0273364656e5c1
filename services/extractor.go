package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

func init() {
	key := os.Getenv("UNIDOC_LICENSE_KEY")
	if key == "" {
		return
	}
	if err := license.SetMeteredKey(key); err != nil {
		log.Printf("WARN: Failed to set Unidoc license key: %v. PDF extraction will fail.", err)
	}
}

// ExtractTextFromFile reads the protocol document and returns its text
// content. Markdown and plain text are read verbatim; PDFs go through UniPDF
// page extraction. A missing or unreadable document is an ingestion failure.
func ExtractTextFromFile(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: document not found at %s: %v", ErrIngestion, path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrIngestion, err)
		}
		return string(content), nil
	case ".pdf":
		text, err := extractTextFromPDF(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrIngestion, err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: unsupported file type: %s", ErrIngestion, ext)
	}
}

// extractTextFromPDF uses UniPDF to get all text from a PDF file.
func extractTextFromPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	return sb.String(), nil
}

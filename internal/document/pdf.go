package document

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// openPDF validates the file and records its page count. Text extraction
// for PDFs happens outside this package; callers attach converted text
// with SetText.
func openPDF(path string) (*Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return nil, fmt.Errorf("validate PDF %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PDF %s: %w", path, err)
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		return nil, fmt.Errorf("page count for %s: %w", path, err)
	}

	return &Document{
		Path:      path,
		Format:    FormatPDF,
		PageCount: pageCount,
	}, nil
}

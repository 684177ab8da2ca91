// Package archive unpacks the uploaded ZIP and decides which entry is the
// sales extract and which is the returns extract.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"gstr1/internal/domain"
)

// maxEntryBytes caps a single decompressed entry.
const maxEntryBytes = 256 << 20

// Role is the part an archive entry plays in a run.
type Role int

const (
	RoleUnknown Role = iota
	RoleSales
	RoleReturns
)

// Classifier assigns a Role to an archive entry by name.
type Classifier interface {
	Classify(name string) Role
}

// NameClassifier matches lower-cased entry names against substrings.
type NameClassifier struct {
	ReturnsMarkers []string
	SalesMarkers   []string
}

// DefaultClassifier recognises the marketplace naming conventions.
func DefaultClassifier() *NameClassifier {
	return &NameClassifier{
		ReturnsMarkers: []string{"return", "rtn"},
		SalesMarkers:   []string{"sale", "sls", "invoice"},
	}
}

// Classify checks returns markers first so "sales_return.xlsx" is a returns file.
func (c *NameClassifier) Classify(name string) Role {
	lower := strings.ToLower(path.Base(name))
	for _, m := range c.ReturnsMarkers {
		if strings.Contains(lower, m) {
			return RoleReturns
		}
	}
	for _, m := range c.SalesMarkers {
		if strings.Contains(lower, m) {
			return RoleSales
		}
	}
	return RoleUnknown
}

// Entry is one extracted table file.
type Entry struct {
	Name string
	Data []byte
}

// Bundle is the classified content of an archive.
type Bundle struct {
	Sales   *Entry
	Returns *Entry
	Ignored []string
}

// supportedExt lists the table formats the workbook reader accepts.
var supportedExt = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
	".csv":  true,
}

// Extract reads a ZIP archive and classifies its table entries. When no entry
// is recognised as sales, the first unclassified entry is used instead.
// A missing returns entry is not an error.
func Extract(data []byte, classifier Classifier) (*Bundle, error) {
	if classifier == nil {
		classifier = DefaultClassifier()
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArchive, err)
	}

	bundle := &Bundle{}
	var unclassified []*Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || skipEntry(f.Name) {
			continue
		}
		if !supportedExt[strings.ToLower(path.Ext(f.Name))] {
			bundle.Ignored = append(bundle.Ignored, f.Name)
			continue
		}
		content, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		entry := &Entry{Name: f.Name, Data: content}

		switch classifier.Classify(f.Name) {
		case RoleReturns:
			if bundle.Returns == nil {
				bundle.Returns = entry
			} else {
				bundle.Ignored = append(bundle.Ignored, f.Name)
			}
		case RoleSales:
			if bundle.Sales == nil {
				bundle.Sales = entry
			} else {
				bundle.Ignored = append(bundle.Ignored, f.Name)
			}
		default:
			unclassified = append(unclassified, entry)
		}
	}

	for _, e := range unclassified {
		if bundle.Sales == nil {
			bundle.Sales = e
			continue
		}
		bundle.Ignored = append(bundle.Ignored, e.Name)
	}

	if bundle.Sales == nil {
		return nil, domain.ErrSalesFileMissing
	}
	return bundle, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrInvalidArchive, f.Name, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrInvalidArchive, f.Name, err)
	}
	if len(content) > maxEntryBytes {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, f.Name)
	}
	return content, nil
}

func skipEntry(name string) bool {
	base := path.Base(name)
	return strings.HasPrefix(name, "__MACOSX/") || strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".")
}

// Pack writes artifacts into a new ZIP archive in the given order.
func Pack(files []domain.Artifact) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := range files {
		w, err := zw.Create(files[i].FileName)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", files[i].FileName, err)
		}
		if _, err := w.Write(files[i].Content); err != nil {
			return nil, fmt.Errorf("writing %s: %w", files[i].FileName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}
	return buf.Bytes(), nil
}

// Package epub renders the document model to an on-disk EPUB container
// using the go-epub serializer. Archive structure, OPF generation and the
// navigation documents are the library's concern; this adapter only maps
// the model onto it.
package epub

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	goepub "github.com/go-shiori/go-epub"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.BookWriter = (*Writer)(nil)

// Writer serializes document models to EPUB files.
type Writer struct{}

// NewWriter creates an EPUB writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write serializes doc to path. The archive is first written to a
// temporary sibling file and renamed into place, so a failed conversion
// never leaves a truncated EPUB behind.
func (w *Writer) Write(ctx context.Context, doc *domain.Document, path string) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCancelled, err)
	}

	// The serializer pulls resources from files, lazily at render time,
	// so model-held bytes go through a scratch directory that must stay
	// alive until the archive has been written out.
	scratch, err := os.MkdirTemp("", "bindery-*")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	defer os.RemoveAll(scratch)

	book, err := w.build(doc, scratch)
	if err != nil {
		return err
	}

	return w.writeAtomic(book, path)
}

// build maps the document model onto the serializer. The model's two cover
// fields (thumbnail registration and front-of-spine page) both resolve
// through SetCover, which registers the cover-image metadata and places the
// cover page ahead of every section.
func (w *Writer) build(doc *domain.Document, scratch string) (*goepub.Epub, error) {
	book, err := goepub.NewEpub(doc.Title)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	book.SetLang(doc.Language)
	book.SetIdentifier(doc.Identifier)

	cssFile := filepath.Join(scratch, "style.css")
	if err := os.WriteFile(cssFile, []byte(doc.Stylesheet), 0o600); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	cssPath, err := book.AddCSS(cssFile, "style.css")
	if err != nil {
		return nil, fmt.Errorf("%w: add stylesheet: %v", domain.ErrSerialization, err)
	}

	if doc.HasCover() {
		imgFile := filepath.Join(scratch, doc.CoverImage.FileName)
		if err := os.WriteFile(imgFile, doc.CoverImage.Data, 0o600); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSerialization, err)
		}
		imgPath, err := book.AddImage(imgFile, doc.CoverImage.FileName)
		if err != nil {
			return nil, fmt.Errorf("%w: add cover image: %v", domain.ErrSerialization, err)
		}
		if err := book.SetCover(imgPath, cssPath); err != nil {
			return nil, fmt.Errorf("%w: set cover: %v", domain.ErrSerialization, err)
		}
	}

	for _, ch := range doc.Chapters {
		if _, err := book.AddSection(ch.Body, ch.Title, ch.FileName, cssPath); err != nil {
			return nil, fmt.Errorf("%w: add chapter %q: %v", domain.ErrSerialization, ch.Title, err)
		}
	}

	return book, nil
}

// writeAtomic renders the archive to a temporary file in the destination
// directory and moves it into place only on success.
func (w *Writer) writeAtomic(book *goepub.Epub, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bindery-*.epub")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	tmpName := tmp.Name()

	if _, err := book.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	return nil
}

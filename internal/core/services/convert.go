package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driven"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driving"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

// untitledName labels books whose stem was nothing but noise, and doubles
// as the output-name fallback.
const untitledName = "Untitled_Book"

// Ensure Converter implements the interface.
var _ driving.BookConverter = (*Converter)(nil)

// Converter runs the per-book pipeline: decode, sanitize, segment,
// assemble, serialize. It holds no per-book state and is safe to invoke
// concurrently across independent books.
type Converter struct {
	writer   driven.BookWriter
	language string
	exec     Executor
}

// NewConverter creates a converter writing through the given serializer.
// exec, when non-nil, bounds the CPU-bound segmentation and assembly stage;
// a nil exec runs it inline.
func NewConverter(writer driven.BookWriter, language string, exec Executor) *Converter {
	if language == "" {
		language = "ko"
	}
	return &Converter{writer: writer, language: language, exec: exec}
}

// Convert converts one book and writes the EPUB to outputPath.
// A canceled context returns domain.ErrCancelled; no output file is
// created in that case.
func (c *Converter) Convert(ctx context.Context, book domain.Book, outputPath string) (*domain.ConversionRecord, error) {
	start := time.Now()
	name := filepath.Base(book.TextPath)
	logger.Info("Start processing: %s", name)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, err)
	}

	// 1. Read the raw bytes
	raw, err := os.ReadFile(book.TextPath)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	// 2. Resolve the encoding; once chosen it is fixed for the pipeline
	decoded, err := ResolveEncoding(raw)
	if err != nil {
		return nil, fmt.Errorf("resolve encoding: %w", err)
	}

	// 3. Sanitize the filename-derived title. The segmentation-derived
	// title always wins over the scanner's candidate.
	title := SanitizeTitle(stem(book.TextPath))
	if title == "" {
		title = untitledName
	}
	logger.Debug("Parsing '%s' (detected title: '%s', encoding: %s)", name, title, decoded.Encoding)

	// 4. Load the cover; a missing or unreadable file is recoverable
	cover := c.loadCover(book)

	// 5. Segment and assemble on the CPU pool
	var (
		doc    *domain.Document
		asmErr error
	)
	parse := func() {
		chapters := SplitChapters(decoded.Text)
		logger.Debug("Detected %d chapters for %s", len(chapters), name)
		doc, asmErr = Assemble(ctx, chapters, title, c.language, cover)
	}
	if c.exec != nil {
		if err := c.exec.Do(ctx, parse); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, err)
		}
	} else {
		parse()
	}
	if asmErr != nil {
		if errors.Is(asmErr, domain.ErrCancelled) {
			logger.Info("Parsing cancelled: %s", name)
		}
		return nil, asmErr
	}

	// 6. Last cancellation check before anything touches the disk
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, err)
	}

	// 7. Serialize
	if err := c.writer.Write(ctx, doc, outputPath); err != nil {
		return nil, fmt.Errorf("write epub: %w", err)
	}
	logger.Info("Saved EPUB: %s (Chapters: %d)", filepath.Base(outputPath), len(doc.Chapters))

	return &domain.ConversionRecord{
		ID:         uuid.NewString(),
		Title:      title,
		SourcePath: book.TextPath,
		OutputPath: outputPath,
		Status:     domain.StatusConverted,
		Chapters:   len(doc.Chapters),
		Encoding:   decoded.Encoding,
		HasCover:   doc.HasCover(),
		Duration:   time.Since(start),
		CreatedAt:  time.Now(),
	}, nil
}

// OutputName derives the output file name from the scanner's candidate
// title (directory- or filename-derived), reduced to filesystem-safe
// characters with a fixed fallback.
func (c *Converter) OutputName(book domain.Book) string {
	raw := book.Title
	if raw == "" {
		raw = stem(book.TextPath)
	}
	name := SafeFileName(SanitizeTitle(raw))
	if name == "" {
		name = untitledName
	}
	return name + ".epub"
}

// loadCover reads the companion cover image. Failures downgrade to a
// warning; the book converts without a cover.
func (c *Converter) loadCover(book domain.Book) *domain.CoverImage {
	if book.CoverPath == "" {
		return nil
	}

	data, err := os.ReadFile(book.CoverPath)
	if err != nil {
		logger.Warn("Failed to attach cover for %s: %v",
			filepath.Base(book.TextPath), fmt.Errorf("%w: %v", domain.ErrCoverAttach, err))
		return nil
	}

	ext := strings.ToLower(filepath.Ext(book.CoverPath))
	logger.Debug("Attached cover: %s", filepath.Base(book.CoverPath))
	return &domain.CoverImage{FileName: "cover" + ext, Data: data}
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

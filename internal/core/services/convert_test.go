package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

// --- Mock implementations ---

// mockWriter implements driven.BookWriter and captures the last document.
type mockWriter struct {
	doc      *domain.Document
	path     string
	writeErr error
	calls    int
}

func (m *mockWriter) Write(_ context.Context, doc *domain.Document, path string) error {
	m.calls++
	m.doc = doc
	m.path = path
	return m.writeErr
}

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func writeBook(t *testing.T, dir, name, content string) domain.Book {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return domain.Book{TextPath: path}
}

func TestConverterConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("full pipeline", func(t *testing.T) {
		dir := t.TempDir()
		book := writeBook(t, dir, "[완결] 달빛조각사 1-50.txt", "1화\n내용입니다.\n\n2화\n더 있습니다.")

		writer := &mockWriter{}
		conv := NewConverter(writer, "ko", nil)

		out := filepath.Join(dir, "out.epub")
		rec, err := conv.Convert(ctx, book, out)
		require.NoError(t, err)

		assert.Equal(t, "달빛조각사", rec.Title)
		assert.Equal(t, domain.StatusConverted, rec.Status)
		assert.Equal(t, 2, rec.Chapters)
		assert.Equal(t, "utf-8", rec.Encoding)
		assert.False(t, rec.HasCover)
		assert.Equal(t, out, rec.OutputPath)

		require.NotNil(t, writer.doc)
		assert.Equal(t, "달빛조각사", writer.doc.Title)
		assert.Equal(t, "ko", writer.doc.Language)
		assert.Equal(t, out, writer.path)
	})

	t.Run("noise-only stem falls back to the untitled label", func(t *testing.T) {
		dir := t.TempDir()
		book := writeBook(t, dir, "[텍본] 1-100.txt", "본문")

		writer := &mockWriter{}
		rec, err := NewConverter(writer, "ko", nil).Convert(ctx, book, filepath.Join(dir, "o.epub"))
		require.NoError(t, err)
		assert.Equal(t, "Untitled_Book", rec.Title)
	})

	t.Run("cover is attached when readable", func(t *testing.T) {
		dir := t.TempDir()
		book := writeBook(t, dir, "책.txt", "1화\n내용")
		book.CoverPath = filepath.Join(dir, "책.JPG")
		require.NoError(t, os.WriteFile(book.CoverPath, []byte{0xFF, 0xD8, 0xFF}, 0o644))

		writer := &mockWriter{}
		rec, err := NewConverter(writer, "ko", nil).Convert(ctx, book, filepath.Join(dir, "o.epub"))
		require.NoError(t, err)

		assert.True(t, rec.HasCover)
		require.NotNil(t, writer.doc.CoverImage)
		assert.Equal(t, "cover.jpg", writer.doc.CoverImage.FileName)
	})

	t.Run("unreadable cover degrades to no cover", func(t *testing.T) {
		dir := t.TempDir()
		book := writeBook(t, dir, "책.txt", "1화\n내용")
		book.CoverPath = filepath.Join(dir, "missing.png")

		writer := &mockWriter{}
		rec, err := NewConverter(writer, "ko", nil).Convert(ctx, book, filepath.Join(dir, "o.epub"))
		require.NoError(t, err)
		assert.False(t, rec.HasCover)
	})

	t.Run("missing text file fails", func(t *testing.T) {
		writer := &mockWriter{}
		_, err := NewConverter(writer, "ko", nil).Convert(ctx, domain.Book{TextPath: "/nope/x.txt"}, "o.epub")
		require.Error(t, err)
		assert.Zero(t, writer.calls)
	})

	t.Run("canceled context writes nothing", func(t *testing.T) {
		dir := t.TempDir()
		book := writeBook(t, dir, "책.txt", "1화\n내용")

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		writer := &mockWriter{}
		_, err := NewConverter(writer, "ko", nil).Convert(cctx, book, filepath.Join(dir, "o.epub"))
		require.ErrorIs(t, err, domain.ErrCancelled)
		assert.Zero(t, writer.calls)
	})

	t.Run("writer failure propagates", func(t *testing.T) {
		dir := t.TempDir()
		book := writeBook(t, dir, "책.txt", "내용")

		writer := &mockWriter{writeErr: errors.New("disk full")}
		_, err := NewConverter(writer, "ko", nil).Convert(ctx, book, filepath.Join(dir, "o.epub"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("runs on a worker pool", func(t *testing.T) {
		dir := t.TempDir()
		book := writeBook(t, dir, "책.txt", "1화\n내용")

		pool := NewWorkerPool(2)
		defer pool.Close()

		writer := &mockWriter{}
		rec, err := NewConverter(writer, "ko", pool).Convert(ctx, book, filepath.Join(dir, "o.epub"))
		require.NoError(t, err)
		assert.Equal(t, 1, rec.Chapters)
	})
}

func TestConverterOutputName(t *testing.T) {
	conv := NewConverter(&mockWriter{}, "ko", nil)

	t.Run("scanner title wins", func(t *testing.T) {
		name := conv.OutputName(domain.Book{Title: "[완결] 달빛조각사", TextPath: "/a/ignored.txt"})
		assert.Equal(t, "달빛조각사.epub", name)
	})

	t.Run("falls back to the file stem", func(t *testing.T) {
		name := conv.OutputName(domain.Book{TextPath: "/a/전생검신 1-120.txt"})
		assert.Equal(t, "전생검신.epub", name)
	})

	t.Run("nothing survives", func(t *testing.T) {
		name := conv.OutputName(domain.Book{TextPath: "/a/[텍본].txt"})
		assert.Equal(t, "Untitled_Book.epub", name)
	})
}

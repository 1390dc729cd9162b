// Package assets discovers candidate books on the filesystem: each .txt
// file under the asset root becomes a book, paired with a cover image by
// naming heuristics.
package assets

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
	"github.com/chaek-labs/bindery-cli/internal/core/ports/driven"
	"github.com/chaek-labs/bindery-cli/internal/logger"
)

// imageExtensions lists the cover formats the scanner recognises.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Ensure Scanner implements the interface.
var _ driven.AssetScanner = (*Scanner)(nil)

// Scanner walks a single level of the asset root. Root-level .txt files
// are books titled after their stem; a subdirectory contributes every
// .txt inside it, titled after the directory.
type Scanner struct{}

// NewScanner creates a filesystem asset scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan discovers books under root in deterministic (path-sorted) order.
func (s *Scanner) Scan(ctx context.Context, root string) ([]domain.Book, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Error("Directory not found: %s", root)
			return nil, nil
		}
		return nil, err
	}

	var books []domain.Book
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(root, entry.Name())
		switch {
		case entry.IsDir():
			books = append(books, s.scanDir(path)...)
		case isTextFile(entry.Name()):
			books = append(books, s.scanFile(path, root))
		}
	}

	sort.Slice(books, func(i, j int) bool { return books[i].TextPath < books[j].TextPath })
	return books, nil
}

// scanFile builds a book from a root-level text file. Cover candidates are
// same-stem image siblings and "cover.<ext>" siblings; when neither exists
// a same-named subdirectory is searched.
func (s *Scanner) scanFile(txtPath, root string) domain.Book {
	stem := fileStem(txtPath)

	var siblings []string
	for _, ext := range imageExtensions {
		if p := strings.TrimSuffix(txtPath, filepath.Ext(txtPath)) + ext; fileExists(p) {
			siblings = append(siblings, p)
		}
		if p := filepath.Join(root, "cover"+ext); fileExists(p) {
			siblings = append(siblings, p)
		}
	}
	sort.Strings(siblings)

	cover := findCoverImage(stem, siblings)
	if cover == "" {
		if sub := filepath.Join(root, stem); dirExists(sub) {
			images := collectImages(sub)
			cover = findCoverImage(stem, images)
			if cover == "" && len(images) > 0 {
				cover = images[0]
			}
		}
	}

	return domain.Book{TextPath: txtPath, Title: stem, CoverPath: cover}
}

// scanDir builds one book per text file inside dir, all titled after the
// directory and sharing its image pool for cover resolution.
func (s *Scanner) scanDir(dir string) []domain.Book {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	images := collectImages(dir)
	var books []domain.Book
	for _, entry := range entries {
		if entry.IsDir() || !isTextFile(entry.Name()) {
			continue
		}
		txtPath := filepath.Join(dir, entry.Name())
		books = append(books, domain.Book{
			TextPath:  txtPath,
			Title:     filepath.Base(dir),
			CoverPath: findCoverImage(fileStem(txtPath), images),
		})
	}
	return books
}

// findCoverImage picks a cover from candidates by priority: exact stem
// match, a file named "cover", then the sole image. Empty when undecided.
func findCoverImage(stem string, images []string) string {
	if len(images) == 0 {
		return ""
	}
	for _, img := range images {
		if fileStem(img) == stem {
			return img
		}
	}
	for _, img := range images {
		if strings.EqualFold(fileStem(img), "cover") {
			return img
		}
	}
	if len(images) == 1 {
		return images[0]
	}
	return ""
}

// collectImages lists supported images directly under dir, sorted.
func collectImages(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, known := range imageExtensions {
			if ext == known {
				images = append(images, filepath.Join(dir, entry.Name()))
				break
			}
		}
	}
	sort.Strings(images)
	return images
}

func isTextFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".txt")
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

package domain

import "time"

// Book is a scanned asset pairing a text file with an optional cover image.
// It is produced by the asset scanner before any content is read.
type Book struct {
	// TextPath is the path to the source .txt file.
	TextPath string

	// Title is the filename- or directory-derived candidate title.
	// It is a raw candidate; the sanitized title is derived during conversion.
	Title string

	// CoverPath is the path to a companion cover image, or empty when the
	// scanner found none.
	CoverPath string
}

// DecodedText is the result of encoding resolution. Once decoding succeeds
// the chosen encoding is fixed for the rest of the pipeline; there is no
// fallback re-attempt mid-conversion.
type DecodedText struct {
	// Text is the decoded content.
	Text string

	// Encoding names the codec that produced Text (e.g. "utf-8", "euc-kr").
	Encoding string
}

// Chapter is a single (title, content) record detected in the source text,
// ordered by position of detection. The first record may carry untitled
// leading content under the synthetic title "Intro".
type Chapter struct {
	// Title is the heading line, verbatim after angle-bracket stripping.
	Title string

	// Content is the prose between this heading and the next.
	Content string
}

// ConversionStatus classifies the outcome of a single book conversion.
type ConversionStatus string

const (
	StatusConverted ConversionStatus = "converted"
	StatusSkipped   ConversionStatus = "skipped"
	StatusCancelled ConversionStatus = "cancelled"
	StatusFailed    ConversionStatus = "failed"
)

// ConversionRecord is the per-book outcome persisted to the history store.
type ConversionRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// Title is the sanitized book title.
	Title string

	// SourcePath is the input text file.
	SourcePath string

	// OutputPath is the produced EPUB file, empty when nothing was written.
	OutputPath string

	// Status is the conversion outcome.
	Status ConversionStatus

	// Chapters is the number of chapter records detected.
	Chapters int

	// Encoding names the codec the resolver settled on.
	Encoding string

	// HasCover reports whether a cover image was attached.
	HasCover bool

	// Duration is the wall-clock conversion time.
	Duration time.Duration

	// Error holds the failure message for failed conversions.
	Error string

	// CreatedAt is when the record was written.
	CreatedAt time.Time
}

package domain

// SpineNav is the spine entry for the navigation document. The container
// serializer resolves it to its own generated nav resource.
const SpineNav = "nav"

// RenderedChapter is a chapter after assembly: rendered XHTML body plus a
// stable archive-internal file name. File names are zero-padded so that
// archive-internal ordering matches reading order regardless of how an
// archive tool sorts entries.
type RenderedChapter struct {
	// Index is the ordinal position within the document, starting at 0.
	Index int

	// Title is the chapter title as shown in the navigation document.
	Title string

	// FileName is the archive-internal file name (e.g. "chap_0003.xhtml").
	FileName string

	// Body is the rendered XHTML body content.
	Body string
}

// CoverImage registers raw image bytes as the document's thumbnail cover.
// It suppresses any automatic cover-page generation by the container
// serializer; the explicit first-page entity is CoverPage.
type CoverImage struct {
	// FileName is the archive-internal image name (e.g. "cover.jpg").
	FileName string

	// Data is the raw image bytes.
	Data []byte
}

// CoverPage is the explicit front-of-spine page containing only a
// full-bleed reference to the cover image. It is deliberately independent
// from CoverImage: the thumbnail registration serves the library shelf,
// the page serves the first-page reading context.
type CoverPage struct {
	// FileName is the archive-internal page name.
	FileName string

	// Body is the rendered XHTML body content.
	Body string
}

// Document is the complete in-memory model handed to the container
// serializer. It is built in a single pass and never mutated afterwards.
type Document struct {
	// Identifier is the unique publication identifier.
	Identifier string

	// Title is the sanitized book title.
	Title string

	// Language is the BCP 47 language tag (e.g. "ko").
	Language string

	// Stylesheet is the shared CSS attached to every chapter and the
	// cover page.
	Stylesheet string

	// Chapters are the rendered chapters in detection order.
	Chapters []RenderedChapter

	// CoverImage is the thumbnail cover registration, nil when the book
	// has no cover. Set if and only if CoverPage is set.
	CoverImage *CoverImage

	// CoverPage is the explicit front-of-spine cover page, nil when the
	// book has no cover.
	CoverPage *CoverPage

	// Spine lists archive-internal file names in linear reading order:
	// [cover page if present] + [nav] + [chapters in order].
	Spine []string
}

// HasCover reports whether both cover mechanisms are populated.
func (d *Document) HasCover() bool {
	return d.CoverImage != nil && d.CoverPage != nil
}

package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

// DefaultStylesheet is the shared stylesheet attached to every chapter and
// the cover page. Serif stack and keep-all word breaking suit the Korean
// web-novel sources this tool was built for.
const DefaultStylesheet = `@namespace epub "http://www.idpf.org/2007/ops";
body {
    font-family: "KoPub Batang", "Noto Serif KR", serif;
    line-height: 1.8;
    margin: 0.5em;
    padding: 0;
    word-break: keep-all;
}
h1 {
    text-align: center;
    margin-top: 2em;
    margin-bottom: 2em;
    font-weight: bold;
    font-size: 1.5em;
}
p {
    text-indent: 1em;
    margin-top: 0;
    margin-bottom: 0.8em;
    text-align: justify;
}
hr.scene-break {
    border: 0;
    border-top: 1px solid #888;
    margin: 2em auto;
    width: 50%;
}
div.cover-container {
    height: 100%;
    width: 100%;
    text-align: center;
    page-break-after: always;
}
img.cover-image {
    max-height: 100%;
    max-width: 100%;
    object-fit: contain;
}
`

const coverPageFileName = "cover_page.xhtml"

// Assemble turns chapter records plus metadata into a complete document
// model: rendered chapters with zero-padded file identifiers, the shared
// stylesheet, the optional dual cover representation and the spine order.
// Cancellation is observed once per chapter so that aborting a very large
// book mid-assembly stays cheap; a canceled context returns
// domain.ErrCancelled.
func Assemble(ctx context.Context, chapters []domain.Chapter, title, language string, cover *domain.CoverImage) (*domain.Document, error) {
	doc := &domain.Document{
		Identifier: uuid.NewString(),
		Title:      title,
		Language:   language,
		Stylesheet: DefaultStylesheet,
		Chapters:   make([]domain.RenderedChapter, 0, len(chapters)),
	}

	for idx, ch := range chapters {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrCancelled, ctx.Err())
		default:
		}

		doc.Chapters = append(doc.Chapters, domain.RenderedChapter{
			Index:    idx,
			Title:    ch.Title,
			FileName: fmt.Sprintf("chap_%04d.xhtml", idx),
			Body:     renderChapterBody(ch),
		})
	}

	if cover != nil && len(cover.Data) > 0 {
		// Two mechanisms on purpose: the image registration feeds the
		// library thumbnail, the explicit page is the first thing read.
		doc.CoverImage = cover
		doc.CoverPage = &domain.CoverPage{
			FileName: coverPageFileName,
			Body: fmt.Sprintf(`<div class="cover-container"><img src=%q alt="Cover" class="cover-image"/></div>`,
				cover.FileName),
		}
	}

	if doc.HasCover() {
		doc.Spine = append(doc.Spine, doc.CoverPage.FileName)
	}
	doc.Spine = append(doc.Spine, domain.SpineNav)
	for _, ch := range doc.Chapters {
		doc.Spine = append(doc.Spine, ch.FileName)
	}

	return doc, nil
}

// renderChapterBody renders a heading element followed by the paragraph
// sequence. Paragraphs are blank-line separated; a paragraph consisting
// solely of '=', '-', '*' and spaces is a scene break and renders as a
// horizontal separator. Empty paragraphs are dropped, internal single
// newlines become line breaks.
func renderChapterBody(ch domain.Chapter) string {
	var b strings.Builder
	b.WriteString("<h1>" + html.EscapeString(ch.Title) + "</h1>")

	for _, para := range strings.Split(ch.Content, "\n\n") {
		p := strings.TrimSpace(para)
		if p == "" {
			continue
		}
		if isSceneBreak(p) {
			b.WriteString(`<hr class="scene-break"/>`)
			continue
		}
		b.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(p), "\n", "<br/>") + "</p>\n")
	}

	return b.String()
}

// isSceneBreak reports whether a non-empty paragraph is made up entirely of
// separator characters.
func isSceneBreak(p string) bool {
	for _, r := range p {
		switch r {
		case '=', '-', '*', ' ':
		default:
			return false
		}
	}
	return true
}

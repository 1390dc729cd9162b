package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaek-labs/bindery-cli/internal/core/domain"
)

func TestAssemble(t *testing.T) {
	ctx := context.Background()

	t.Run("builds document metadata", func(t *testing.T) {
		doc, err := Assemble(ctx, []domain.Chapter{{Title: "1화", Content: "내용"}}, "달빛조각사", "ko", nil)
		require.NoError(t, err)

		assert.NotEmpty(t, doc.Identifier)
		assert.Equal(t, "달빛조각사", doc.Title)
		assert.Equal(t, "ko", doc.Language)
		assert.Equal(t, DefaultStylesheet, doc.Stylesheet)
	})

	t.Run("zero-padded chapter file names", func(t *testing.T) {
		chapters := make([]domain.Chapter, 3)
		for i := range chapters {
			chapters[i] = domain.Chapter{Title: "ch", Content: "x"}
		}

		doc, err := Assemble(ctx, chapters, "t", "ko", nil)
		require.NoError(t, err)
		require.Len(t, doc.Chapters, 3)
		assert.Equal(t, "chap_0000.xhtml", doc.Chapters[0].FileName)
		assert.Equal(t, "chap_0002.xhtml", doc.Chapters[2].FileName)
	})

	t.Run("spine without cover starts at nav", func(t *testing.T) {
		doc, err := Assemble(ctx, []domain.Chapter{{Title: "a"}, {Title: "b"}}, "t", "ko", nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"nav", "chap_0000.xhtml", "chap_0001.xhtml"}, doc.Spine)
		assert.False(t, doc.HasCover())
	})

	t.Run("cover produces both representations and leads the spine", func(t *testing.T) {
		cover := &domain.CoverImage{FileName: "cover.jpg", Data: []byte{0xFF, 0xD8}}

		doc, err := Assemble(ctx, []domain.Chapter{{Title: "a"}}, "t", "ko", cover)
		require.NoError(t, err)

		require.True(t, doc.HasCover())
		assert.Equal(t, cover, doc.CoverImage)
		assert.Equal(t, "cover_page.xhtml", doc.CoverPage.FileName)
		assert.Contains(t, doc.CoverPage.Body, `src="cover.jpg"`)
		assert.Equal(t, "cover_page.xhtml", doc.Spine[0])
		assert.Equal(t, "nav", doc.Spine[1])
	})

	t.Run("empty cover data is ignored", func(t *testing.T) {
		doc, err := Assemble(ctx, []domain.Chapter{{Title: "a"}}, "t", "ko", &domain.CoverImage{FileName: "cover.png"})
		require.NoError(t, err)
		assert.False(t, doc.HasCover())
	})

	t.Run("canceled context aborts assembly", func(t *testing.T) {
		cctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Assemble(cctx, []domain.Chapter{{Title: "a"}}, "t", "ko", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCancelled)
	})
}

func TestRenderChapterBody(t *testing.T) {
	t.Run("heading and paragraphs", func(t *testing.T) {
		body := renderChapterBody(domain.Chapter{Title: "1화", Content: "첫 문단\n\n둘째 문단"})

		assert.Contains(t, body, "<h1>1화</h1>")
		assert.Contains(t, body, "<p>첫 문단</p>")
		assert.Contains(t, body, "<p>둘째 문단</p>")
	})

	t.Run("scene break separator", func(t *testing.T) {
		body := renderChapterBody(domain.Chapter{Title: "t", Content: "위\n\n-----\n\n아래"})

		assert.Contains(t, body, `<hr class="scene-break"/>`)
		assert.NotContains(t, body, "<p>-----</p>")
	})

	t.Run("mixed separator characters", func(t *testing.T) {
		body := renderChapterBody(domain.Chapter{Title: "t", Content: "* * *"})
		assert.Contains(t, body, `<hr class="scene-break"/>`)
	})

	t.Run("single newlines become line breaks", func(t *testing.T) {
		body := renderChapterBody(domain.Chapter{Title: "t", Content: "첫 줄\n둘째 줄"})
		assert.Contains(t, body, "첫 줄<br/>둘째 줄")
	})

	t.Run("markup in content is escaped", func(t *testing.T) {
		body := renderChapterBody(domain.Chapter{Title: "<1화>", Content: "a < b & c"})

		assert.Contains(t, body, "<h1>&lt;1화&gt;</h1>")
		assert.Contains(t, body, "a &lt; b &amp; c")
	})

	t.Run("empty paragraphs are dropped", func(t *testing.T) {
		body := renderChapterBody(domain.Chapter{Title: "t", Content: "하나\n\n\n\n둘"})
		assert.Equal(t, 2, strings.Count(body, "<p>"))
	})
}

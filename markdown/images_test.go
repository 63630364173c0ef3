package markdown

import (
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedImage(alt, format string, data []byte) string {
	return fmt.Sprintf("![%s](data:image/%s;base64,%s)",
		alt, format, base64.StdEncoding.EncodeToString(data))
}

func TestExtractImages(t *testing.T) {
	t.Run("finds embedded images in order", func(t *testing.T) {
		markdown := "intro\n" +
			embedImage("chart", "png", []byte{1, 2, 3}) +
			"\nmiddle\n" +
			embedImage("photo", "JPEG", []byte{4, 5}) +
			"\nend"

		images := ExtractImages(markdown)
		require.Len(t, images, 2)

		assert.Equal(t, 1, images[0].Index)
		assert.Equal(t, "chart", images[0].AltText)
		assert.Equal(t, "png", images[0].Format)
		assert.Equal(t, []byte{1, 2, 3}, images[0].Data)

		assert.Equal(t, 2, images[1].Index)
		assert.Equal(t, "jpeg", images[1].Format, "format should be lowercased")
		assert.Equal(t, []byte{4, 5}, images[1].Data)
	})

	t.Run("skips undecodable payloads", func(t *testing.T) {
		markdown := "![bad](data:image/png;base64,!!!not-base64!!!)"
		assert.Empty(t, ExtractImages(markdown))
	})

	t.Run("ignores regular image links", func(t *testing.T) {
		markdown := "![external](https://example.com/pic.png)"
		assert.Empty(t, ExtractImages(markdown))
	})
}

func TestContextAroundImage(t *testing.T) {
	markdown := "line1\nline2\nline3\n" +
		embedImage("fig", "png", []byte{9}) +
		"\nline4\nline5"

	images := ExtractImages(markdown)
	require.Len(t, images, 1)

	t.Run("includes surrounding lines", func(t *testing.T) {
		context := ContextAroundImage(markdown, images[0], 2, 2)
		assert.Contains(t, context, "line2\nline3")
		assert.Contains(t, context, "line4\nline5")
		assert.NotContains(t, context, "line1")
	})

	t.Run("boundary newline does not count as a line", func(t *testing.T) {
		context := ContextAroundImage(markdown, images[0], 1, 1)
		assert.Contains(t, context, "line3")
		assert.NotContains(t, context, "line2")
		assert.Contains(t, context, "line4")
		assert.NotContains(t, context, "line5")
	})

	t.Run("zero lines yields empty context", func(t *testing.T) {
		context := ContextAroundImage(markdown, images[0], 0, 0)
		assert.Empty(t, context)
	})
}

func TestReplaceImagesWithDescriptions(t *testing.T) {
	t.Run("replaces images with descriptions", func(t *testing.T) {
		markdown := "before\n" +
			embedImage("a", "png", []byte{1}) +
			"\nbetween\n" +
			embedImage("b", "png", []byte{2}) +
			"\nafter"

		images := ExtractImages(markdown)
		require.Len(t, images, 2)
		images[0].Description = "first description"
		images[1].Description = "second description"

		result := ReplaceImagesWithDescriptions(markdown, images)

		assert.NotContains(t, result, "data:image")
		assert.Contains(t, result, "**[Image Description]**\n\nfirst description")
		assert.Contains(t, result, "**[Image Description]**\n\nsecond description")
		assert.Contains(t, result, "before")
		assert.Contains(t, result, "between")
		assert.Contains(t, result, "after")
	})

	t.Run("missing description uses placeholder", func(t *testing.T) {
		markdown := embedImage("a", "png", []byte{1})
		images := ExtractImages(markdown)
		require.Len(t, images, 1)

		result := ReplaceImagesWithDescriptions(markdown, images)
		assert.Contains(t, result, "No description available.")
	})
}

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplacePageBreaks(t *testing.T) {
	t.Run("numbers breaks sequentially", func(t *testing.T) {
		input := "page one<!-- page break -->page two<!-- page break -->page three"
		assert.Equal(t, "page one{1}page two{2}page three", ReplacePageBreaks(input, 1))
	})

	t.Run("respects start page", func(t *testing.T) {
		input := "a<!-- page break -->b"
		assert.Equal(t, "a{4}b", ReplacePageBreaks(input, 4))
	})

	t.Run("no breaks leaves text unchanged", func(t *testing.T) {
		assert.Equal(t, "plain text", ReplacePageBreaks("plain text", 1))
	})

	t.Run("start page below one clamps to one", func(t *testing.T) {
		assert.Equal(t, "a{1}b", ReplacePageBreaks("a<!-- page break -->b", 0))
	})
}

func TestSplitByPages(t *testing.T) {
	t.Run("splits on numbered markers", func(t *testing.T) {
		pages := SplitByPages("first page{1}second page{2}third page")
		require.Len(t, pages, 3)

		assert.Equal(t, 1, pages[0].Number)
		assert.Equal(t, "first page", pages[0].Markdown)
		assert.Equal(t, 2, pages[1].Number)
		assert.Equal(t, "second page", pages[1].Markdown)
		assert.Equal(t, 3, pages[2].Number)
		assert.Equal(t, "third page", pages[2].Markdown)
	})

	t.Run("skips empty pages but keeps numbering", func(t *testing.T) {
		pages := SplitByPages("first{1}   {2}third")
		require.Len(t, pages, 2)

		assert.Equal(t, 1, pages[0].Number)
		assert.Equal(t, 3, pages[1].Number)
		assert.Equal(t, "third", pages[1].Markdown)
	})

	t.Run("no markers yields single page", func(t *testing.T) {
		pages := SplitByPages("just one page of content")
		require.Len(t, pages, 1)
		assert.Equal(t, 1, pages[0].Number)
	})

	t.Run("trims page content", func(t *testing.T) {
		pages := SplitByPages("\n\n  hello  \n{1}world")
		require.Len(t, pages, 2)
		assert.Equal(t, "hello", pages[0].Markdown)
		assert.Equal(t, "world", pages[1].Markdown)
	})

	t.Run("empty input yields no pages", func(t *testing.T) {
		assert.Empty(t, SplitByPages(""))
	})
}

func TestReplaceThenSplitRoundTrip(t *testing.T) {
	input := "alpha<!-- page break -->beta<!-- page break -->gamma"
	pages := SplitByPages(ReplacePageBreaks(input, 1))

	require.Len(t, pages, 3)
	assert.Equal(t, "alpha", pages[0].Markdown)
	assert.Equal(t, "beta", pages[1].Markdown)
	assert.Equal(t, "gamma", pages[2].Markdown)
}

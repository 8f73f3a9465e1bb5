package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestTextFromHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "adjacent inline elements", in: "<b>Hello</b>World", want: "Hello World"},
		{name: "inline element with trailing space", in: "<b>Hello </b>World", want: "Hello World"},
		{name: "paragraph with nested bold", in: "<p>Hi <b>there</b></p>", want: "Hi there"},
		{name: "script and style excluded",
			in:   `<p>visible</p><script>var secret = "hidden";</script><style>.a{color:red}</style>`,
			want: "visible"},
		{name: "script inside container", in: "<div>keep<script>document.write('<b>drop</b>')</script> this</div>", want: "keep this"},
		{name: "pre excluded", in: "<p>a</p><pre>code here\n  more</pre><p>b</p>", want: "a b"},
		{name: "whitespace only", in: "<p>   </p>\n<div>\t\r\n</div>", want: ""},
		{name: "collapse across lines", in: "<p>line one\n\n   line two</p>", want: "line one line two"},
		{name: "single newline kept", in: "<p>a\nb</p>", want: "a\nb"},
		{name: "entities decoded", in: "<p>Tom &amp; Jerry</p>", want: "Tom & Jerry"},
		{name: "title and body", in: "<html><head><title>T</title></head><body><h1>Head</h1><p>Para</p></body></html>",
			want: "T Head Para"},
		{name: "list items", in: "<ul><li>one</li><li>two</li></ul>", want: "one two"},
		{name: "comments skipped", in: "<p>a<!-- hidden -->b</p>", want: "a b"},
		{name: "noscript children are markup", in: "<noscript><p>nojs</p></noscript>y", want: "nojs y"},
		{name: "noscript in body", in: "<div>a<noscript><b>b</b></noscript>c</div>", want: "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TextFromHTML(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractText_RawSeparators(t *testing.T) {
	root, err := html.Parse(strings.NewReader("<p>Hi <b>there</b></p>"))
	require.NoError(t, err)
	assert.Equal(t, "Hi there ", extractRaw(root), "separator appended after last fragment")
	assert.Equal(t, "Hi there", ExtractText(root))
}

func TestExtractText_NilAndEmpty(t *testing.T) {
	assert.Empty(t, ExtractText(nil))
	assert.Empty(t, ExtractText(&html.Node{Type: html.DocumentNode}))
}

func TestExtractText_ExcludedSubtree(t *testing.T) {
	// build tree manually with upper-case tag names, parser would lower-case them
	root := &html.Node{Type: html.ElementNode, Data: "div"}
	root.AppendChild(&html.Node{Type: html.TextNode, Data: "before"})
	script := &html.Node{Type: html.ElementNode, Data: "SCRIPT"}
	inner := &html.Node{Type: html.ElementNode, Data: "span"}
	inner.AppendChild(&html.Node{Type: html.TextNode, Data: "secret"})
	script.AppendChild(inner)
	root.AppendChild(script)
	root.AppendChild(&html.Node{Type: html.TextNode, Data: "after"})

	got := ExtractText(root)
	assert.Equal(t, "before after", got)
	assert.NotContains(t, got, "secret")
}

func TestExtractText_DeepNesting(t *testing.T) {
	root := &html.Node{Type: html.ElementNode, Data: "div"}
	cur := root
	for i := 0; i < 200000; i++ {
		child := &html.Node{Type: html.ElementNode, Data: "span"}
		cur.AppendChild(child)
		cur = child
	}
	cur.AppendChild(&html.Node{Type: html.TextNode, Data: "deep"})
	assert.Equal(t, "deep", ExtractText(root))
}

func TestExtractText_NoRepeatedWhitespace(t *testing.T) {
	inputs := []string{
		"<div>  a  </div>\n\n<div>\tb\t</div>",
		"<p>one</p>   <p>two </p> <p> three</p>",
		"<span>x</span><span> </span><span>y</span>",
		"<td>1</td>\r\n\r\n<td>2</td>",
	}
	for _, in := range inputs {
		got, err := TextFromHTML(in)
		require.NoError(t, err)
		for i := 1; i < len(got); i++ {
			assert.False(t, isSpace(got[i-1]) && isSpace(got[i]), "repeated whitespace in %q", got)
		}
		assert.Equal(t, strings.TrimSpace(got), got)
	}
}

func TestExtractText_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>Hi <b>there</b></p>",
		"<div>  a &lt;tag&gt;  </div>\n\n<div>\tb\t</div>",
		"<p>a\nb</p><script>x</script>",
		"<b>Hello</b>World",
	}
	for _, in := range inputs {
		cleaned, err := TextFromHTML(in)
		require.NoError(t, err)
		again, err := TextFromHTML(html.EscapeString(cleaned))
		require.NoError(t, err)
		assert.Equal(t, cleaned, again, "input %q", in)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a \n\n b\t\t c  "))
	assert.Equal(t, "a\nb", CollapseWhitespace("a\nb"))
	assert.Empty(t, CollapseWhitespace(" \r\n "))
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

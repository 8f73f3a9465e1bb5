package content

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// excludedTags are skipped together with their whole subtree
var excludedTags = map[string]bool{"script": true, "style": true, "pre": true}

var repeatedSpaces = regexp.MustCompile(`\s{2,}`)

// ExtractText converts html node tree to normalized plain text.
// Text nodes are emitted in document order, each followed by a separator space unless it already
// ends with whitespace. Runs of whitespace in the result are collapsed to a single space.
func ExtractText(root *html.Node) string {
	return CollapseWhitespace(extractRaw(root))
}

// TextFromHTML parses html fragment or document and returns its plain text
func TextFromHTML(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return "", nil
	}
	root, err := ParseHTML(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return ExtractText(root), nil
}

// ParseHTML parses html with scripting disabled, so noscript content is a regular subtree
// instead of a single raw text node
func ParseHTML(r io.Reader) (*html.Node, error) {
	return html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
}

// CollapseWhitespace replaces every run of two or more whitespace characters with a single space
// and trims the result
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(repeatedSpaces.ReplaceAllString(s, " "))
}

// extractRaw walks the tree pre-order with an explicit stack, so deeply nested input can't exhaust
// the goroutine stack. Returns text before whitespace collapsing.
func extractRaw(root *html.Node) string {
	if root == nil {
		return ""
	}

	var sb strings.Builder
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && excludedTags[strings.ToLower(n.Data)] {
			continue
		}
		if n.Type == html.TextNode {
			appendText(&sb, n.Data)
		}

		// push in reverse, first child is popped first
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return sb.String()
}

func appendText(sb *strings.Builder, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	sb.WriteString(text)
	switch text[len(text)-1] {
	case ' ', '\t', '\n', '\r':
	default:
		sb.WriteByte(' ') // words from adjacent inline elements must not stick together
	}
}

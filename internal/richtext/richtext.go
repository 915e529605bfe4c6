// Package richtext renders markdown and sanitizes admin supplied HTML.
package richtext

import (
	"bytes"
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// imageSource accepts absolute http(s) URLs and root relative paths.
var imageSource = regexp.MustCompile(`^(?i:https?://|/)\S*$`)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	md = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
)

// Policy returns the shared sanitizer policy.
func Policy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.NewPolicy()

		p.AllowElements(
			"address", "article", "aside", "footer", "header", "main", "nav", "section",
			"h1", "h2", "h3", "h4", "h5", "h6", "hgroup",
			"blockquote", "dd", "div", "dl", "dt", "figcaption", "figure", "hr", "li", "ol", "p", "pre", "ul",
			"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn", "em", "i", "kbd", "mark", "q",
			"rb", "rp", "rt", "rtc", "ruby", "s", "samp", "small", "span", "strong", "sub", "sup", "time", "u", "var", "wbr",
			"caption", "col", "colgroup", "table", "tbody", "td", "tfoot", "th", "thead", "tr",
			"img",
		)

		p.AllowAttrs("href", "name", "target", "rel").OnElements("a")
		p.AllowAttrs("src").Matching(imageSource).OnElements("img")
		p.AllowAttrs("alt", "title", "width", "height").OnElements("img")
		p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")

		p.AllowURLSchemes("http", "https", "mailto", "tel")
		p.AllowRelativeURLs(true)
		p.RequireParseableURLs(true)

		policy = p
	})

	return policy
}

// Sanitize strips everything the policy does not allow.
func Sanitize(in string) string {
	return Policy().Sanitize(in)
}

// Render converts markdown to sanitized HTML.
func Render(source string) (string, error) {
	var buf bytes.Buffer

	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", errors.Wrap(err, "render markdown")
	}

	return Sanitize(buf.String()), nil
}

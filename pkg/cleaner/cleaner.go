package cleaner

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	spacePattern = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
	htmlHint     = regexp.MustCompile(`(?i)<(p|div|li|ul|ol|br|h[1-6]|span|body|html|strong|em)[\s/>]`)
)

// JobDescription returns the prompt text for a pasted job description. Plain
// text passes through with whitespace normalised, even when it mentions tag
// names. Only input that is markup from the first character is reduced to
// its readable text.
func JobDescription(in string) string {
	if !IsMarkup(in) {
		return normalize(in)
	}
	return CleanHTML(in)
}

// IsMarkup reports whether in looks like an HTML document or fragment.
func IsMarkup(in string) bool {
	trimmed := strings.TrimSpace(in)
	return strings.HasPrefix(trimmed, "<") && htmlHint.MatchString(trimmed)
}

func CleanHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalize(tagPattern.ReplaceAllString(html, " "))
	}
	doc.Find("script, style, nav, header, footer, iframe, noscript, form, button").Remove()
	doc.Find(".menu, .navigation, .social, .banner, .ads, .cookie, .popup").Remove()

	var blocks []string
	covered := 0
	doc.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		covered += visibleRunes(text)
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		blocks = append(blocks, text)
	})

	body := doc.Find("body")
	if len(blocks) > 0 && covered >= visibleRunes(body.Text()) {
		return strings.Join(blocks, "\n")
	}

	// Text sits outside the readable blocks: keep all of it, one line per
	// block-level element.
	markLines(body)
	if text := normalize(body.Text()); text != "" {
		return text
	}
	return normalize(doc.Text())
}

func markLines(root *goquery.Selection) {
	root.Find("li").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.InsertBefore(&html.Node{Type: html.TextNode, Data: "- "}, n.FirstChild)
		}
	})
	root.Find("p, li, div, br, ul, ol, tr, section, article, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: "\n"})
		}
	})
}

func visibleRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// LLMResponse strips a markdown code fence some models wrap around JSON even
// when asked not to.
func LLMResponse(response string) string {
	if !strings.Contains(response, "```") {
		return strings.TrimSpace(response)
	}

	start := strings.Index(response, "```")
	if strings.HasPrefix(response[start:], "```json") {
		start += len("```json")
	} else {
		start += len("```")
	}
	end := strings.LastIndex(response, "```")

	if end > start {
		return strings.TrimSpace(response[start:end])
	}
	return strings.TrimSpace(response)
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(spacePattern.ReplaceAllString(l, " "))
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(blankLines.ReplaceAllString(text, "\n\n"))
}

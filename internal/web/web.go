package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strings"

	"mock-interview/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageIndex     = "index.html"
	PageStart     = "start.html"
	PageInterview = "interview.html"
	PageResults   = "results.html"
	PageError     = "error.html"
)

var pageNames = []string{PageIndex, PageStart, PageInterview, PageResults, PageError}

// Pages renders the server-side HTML views. Every page shares layout.html.
type Pages struct {
	pages map[string]*template.Template
	// HardQuestions is how many trailing questions get the "Hard" badge.
	HardQuestions int
}

func NewPages(hardQuestions int) (*Pages, error) {
	css, err := fs.ReadFile(staticFS, "static/styles.css")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"styles":     func() template.CSS { return template.CSS(css) },
		"inc":        func(i int) int { return i + 1 },
		"gradeClass": GradeClass,
		"shareURL":   shareURL,
	}

	p := &Pages{pages: make(map[string]*template.Template, len(pageNames)), HardQuestions: hardQuestions}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		p.pages[name] = t
	}
	return p, nil
}

// Static exposes app.js and styles.css.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func (p *Pages) Render(name string, data interface{}) (string, error) {
	t, ok := p.pages[name]
	if !ok {
		return "", fmt.Errorf("unknown page %s", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// PageView is the template model for every page except results.
type PageView struct {
	Title         string
	Print         bool
	SessionID     string
	HardQuestions int
	Heading       string
	Message       string
}

// ResultsView is the template model for the results page.
type ResultsView struct {
	Title   string
	Session *domain.Session
	Card    *domain.Scorecard
	// Print drops navigation and buttons for the PDF export.
	Print bool
}

func (p *Pages) ResultsPage(s *domain.Session, printable bool) (string, error) {
	return p.Render(PageResults, ResultsView{
		Title:   "Your Results",
		Session: s,
		Card:    s.Scorecard,
		Print:   printable,
	})
}

// RenderResults renders the printable results document.
func (p *Pages) RenderResults(s *domain.Session) (string, error) {
	return p.ResultsPage(s, true)
}

// GradeClass maps a letter grade to its colour class.
func GradeClass(grade string) string {
	switch {
	case strings.HasPrefix(grade, "A"):
		return "grade-a"
	case strings.HasPrefix(grade, "B"):
		return "grade-b"
	case strings.HasPrefix(grade, "C"):
		return "grade-c"
	case strings.HasPrefix(grade, "D"):
		return "grade-d"
	default:
		return "grade-f"
	}
}

func shareURL(grade string, score int) string {
	text := fmt.Sprintf("I just got a %s (%d/100) on my mock interview roast. Think you can beat it?", grade, score)
	return "https://twitter.com/intent/tweet?text=" + url.QueryEscape(text)
}

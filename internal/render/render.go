// Package render turns a profile and a view state into the page markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/Zachkp/portfolio/internal/profile"
	"github.com/Zachkp/portfolio/internal/section"
	"github.com/Zachkp/portfolio/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Template names.
const (
	PageTemplate           = "page.html"
	ContactTemplate        = "contact.html"
	ContactSuccessTemplate = "contact-success.html"
	ContactErrorTemplate   = "contact-error.html"
)

// Static returns the embedded assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}

// NavDot is one navigation indicator.
type NavDot struct {
	ID     section.ID
	Label  string
	Anchor string
	Active bool
}

// PageData is everything page.html reads.
type PageData struct {
	FirstName string
	LastName  string
	FullName  string
	Kicker    string
	Tagline   string
	About     template.HTML
	Avatar    string
	Logo      string
	Nav       []NavDot
	Skills    []SkillFragment
	Projects  []ProjectFragment
	Contact   profile.Contact
	State     view.State
	Year      int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock overrides time.Now, used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// Renderer owns the parsed templates and the markdown converter.
type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
	now  func() time.Time
}

// New parses the embedded templates.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"orientationClass": func(o Orientation) string { return o.Class() },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tmpl = tmpl
	return r, nil
}

// Templates exposes the template set so an HTTP router can execute it.
func (r *Renderer) Templates() *template.Template {
	return r.tmpl
}

// Markdown converts src to HTML. Raw HTML in src is not passed through.
// On a conversion error the source is returned escaped.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String()) //nolint:gosec // raw HTML is dropped by the converter
}

// PageData assembles the template input for p in state s.
func (r *Renderer) PageData(p *profile.Profile, s view.State) PageData {
	nav := make([]NavDot, 0, len(section.All()))
	active := s.Active
	if !active.Valid() {
		active = section.Home
	}
	for _, id := range section.All() {
		nav = append(nav, NavDot{ID: id, Label: id.Label(), Anchor: id.Anchor(), Active: id == active})
	}
	if s.BackgroundOffset == "" {
		s.BackgroundOffset = view.Initial().BackgroundOffset
	}

	return PageData{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Kicker:    p.Kicker,
		Tagline:   p.Tagline,
		About:     r.Markdown(p.About),
		Avatar:    imageOrPlaceholder(p.Avatar),
		Logo:      imageOrPlaceholder(p.Logo),
		Nav:       nav,
		Skills:    Skills(p.Skills),
		Projects:  Projects(p.Projects, r.Markdown),
		Contact:   p.Contact,
		State:     s,
		Year:      r.now().Year(),
	}
}

// Page writes the full page for p in state s.
func (r *Renderer) Page(w io.Writer, p *profile.Profile, s view.State) error {
	return r.Execute(w, PageTemplate, r.PageData(p, s))
}

// Execute runs the named template. Output is buffered so a failing
// template never leaves a half-written page behind.
func (r *Renderer) Execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

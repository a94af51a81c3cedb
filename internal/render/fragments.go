package render

import (
	"fmt"
	"html/template"

	"github.com/Zachkp/portfolio/internal/profile"
)

// Placeholder stands in for any image reference that is missing.
const Placeholder = "/static/img/placeholder.svg"

// Orientation is the layout of one project row.
type Orientation string

const (
	// OrientationForward puts the image left of the text.
	OrientationForward Orientation = "forward"
	// OrientationMirrored puts the image right of the text.
	OrientationMirrored Orientation = "mirrored"
)

// OrientationFor alternates by index parity: even rows forward, odd rows
// mirrored.
func OrientationFor(index int) Orientation {
	if index%2 == 0 {
		return OrientationForward
	}
	return OrientationMirrored
}

// Class is the flex direction utility class for the row.
func (o Orientation) Class() string {
	if o == OrientationMirrored {
		return "md:flex-row-reverse"
	}
	return "md:flex-row"
}

// SkillFragment is one rendered skill card.
type SkillFragment struct {
	Index int
	Name  string
	Color string
	Icon  string
	// Delay staggers the entrance animation by position.
	Delay string
}

// ProjectFragment is one rendered project row.
type ProjectFragment struct {
	Index       int
	ID          int
	Title       string
	Description template.HTML
	Image       string
	Tags        []string
	Gradient    string
	Link        string
	Code        string
	Orientation Orientation
}

// Skills projects entries into fragments, one per entry, in input order.
func Skills(entries []profile.SkillEntry) []SkillFragment {
	out := make([]SkillFragment, len(entries))
	for i, s := range entries {
		out[i] = SkillFragment{
			Index: i,
			Name:  s.Name,
			Color: s.Color,
			Icon:  s.Icon,
			Delay: fmt.Sprintf("%.1fs", 0.1*float64(i)),
		}
	}
	return out
}

// Projects projects entries into fragments, one per entry, in input order.
// Descriptions go through md; a nil md leaves them as escaped text.
func Projects(entries []profile.ProjectEntry, md func(string) template.HTML) []ProjectFragment {
	out := make([]ProjectFragment, len(entries))
	for i, p := range entries {
		desc := template.HTML(template.HTMLEscapeString(p.Description))
		if md != nil {
			desc = md(p.Description)
		}
		out[i] = ProjectFragment{
			Index:       i,
			ID:          p.ID,
			Title:       p.Title,
			Description: desc,
			Image:       imageOrPlaceholder(p.Image),
			Tags:        append([]string(nil), p.Tags...),
			Gradient:    p.Gradient,
			Link:        p.Link,
			Code:        p.Code,
			Orientation: OrientationFor(i),
		}
	}
	return out
}

func imageOrPlaceholder(ref string) string {
	if ref == "" {
		return Placeholder
	}
	return ref
}

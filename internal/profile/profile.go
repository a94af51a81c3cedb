// Package profile is the configuration record the page is rendered from:
// who the site belongs to, their skills, their projects and how to reach
// them.
package profile

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrLoadProfile    = errors.New("load profile failed")
)

// SkillEntry is one card of the skills grid.
type SkillEntry struct {
	Name  string `koanf:"name" json:"name" validate:"required"`
	Color string `koanf:"color" json:"color" validate:"required"`
	Icon  string `koanf:"icon" json:"icon,omitempty"`
}

// ProjectEntry is one row of the projects gallery.
type ProjectEntry struct {
	ID          int      `koanf:"id" json:"id" validate:"gt=0"`
	Title       string   `koanf:"title" json:"title" validate:"required"`
	Description string   `koanf:"description" json:"description"`
	Image       string   `koanf:"image" json:"image,omitempty"`
	Tags        []string `koanf:"tags" json:"tags" validate:"min=1,dive,required"`
	Gradient    string   `koanf:"gradient" json:"gradient"`
	Link        string   `koanf:"link" json:"link,omitempty" validate:"omitempty,url"`
	Code        string   `koanf:"code" json:"code,omitempty" validate:"omitempty,url"`
}

// Contact holds the social links and the contact details card.
type Contact struct {
	GitHub       string `koanf:"github" json:"github,omitempty" validate:"omitempty,url"`
	LinkedIn     string `koanf:"linkedin" json:"linkedin,omitempty" validate:"omitempty,url"`
	Email        string `koanf:"email" json:"email,omitempty" validate:"omitempty,email"`
	Location     string `koanf:"location" json:"location,omitempty"`
	Availability string `koanf:"availability" json:"availability,omitempty"`
}

// Profile parameterises the whole page.
type Profile struct {
	FirstName string `koanf:"first_name" json:"first_name" validate:"required"`
	LastName  string `koanf:"last_name" json:"last_name"`
	Kicker    string `koanf:"kicker" json:"kicker"`
	Tagline   string `koanf:"tagline" json:"tagline"`
	// About is markdown.
	About  string `koanf:"about" json:"about,omitempty"`
	Avatar string `koanf:"avatar" json:"avatar,omitempty"`
	Logo   string `koanf:"logo" json:"logo,omitempty"`

	Skills   []SkillEntry   `koanf:"skills" json:"skills" validate:"dive"`
	Projects []ProjectEntry `koanf:"projects" json:"projects" validate:"dive"`
	Contact  Contact        `koanf:"contact" json:"contact"`
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

var validate = validator.New()

// Validate checks field constraints plus the uniqueness of skill names and
// project ids.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	names := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("%w: duplicate skill %q", ErrInvalidProfile, s.Name)
		}
		names[s.Name] = struct{}{}
	}

	ids := make(map[int]struct{}, len(p.Projects))
	for _, pr := range p.Projects {
		if _, dup := ids[pr.ID]; dup {
			return fmt.Errorf("%w: duplicate project id %d", ErrInvalidProfile, pr.ID)
		}
		ids[pr.ID] = struct{}{}
	}
	return nil
}

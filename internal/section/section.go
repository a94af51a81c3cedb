// Package section tracks which of the page's four sections the navigation
// dots highlight.
//
// Selecting a section only moves the highlight. It never scrolls the page.
package section

import (
	"errors"
	"strings"
	"sync"
)

// ID names one content region of the page.
type ID string

const (
	Home     ID = "home"
	Skills   ID = "skills"
	Projects ID = "projects"
	Contact  ID = "contact"
)

// ErrUnknownSection is returned for ids outside the four known sections.
var ErrUnknownSection = errors.New("unknown section")

// All returns the sections in page order.
func All() []ID {
	return []ID{Home, Skills, Projects, Contact}
}

// Valid reports whether id is one of the four sections.
func (id ID) Valid() bool {
	switch id {
	case Home, Skills, Projects, Contact:
		return true
	}
	return false
}

// Label is the text shown next to the navigation dot.
func (id ID) Label() string {
	if id == "" {
		return ""
	}
	s := string(id)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Anchor is the fragment identifier of the section's element.
func (id ID) Anchor() string {
	return "#" + string(id)
}

// Parse validates s as a section id.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if !id.Valid() {
		return "", ErrUnknownSection
	}
	return id, nil
}

// Selector holds the active section. The zero value is ready to use and
// starts on Home.
type Selector struct {
	mu      sync.RWMutex
	current ID
}

// NewSelector returns a selector on Home.
func NewSelector() *Selector {
	return &Selector{current: Home}
}

// Select makes id active. Unknown ids are rejected and the active section
// is left as it was.
func (s *Selector) Select(id ID) error {
	if !id.Valid() {
		return ErrUnknownSection
	}
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	return nil
}

// Current returns the active section.
func (s *Selector) Current() ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == "" {
		return Home
	}
	return s.current
}

// IsActive reports whether id is the highlighted section.
func (s *Selector) IsActive(id ID) bool {
	return s.Current() == id
}

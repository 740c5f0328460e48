// Package theme holds the process-wide light/dark display mode. The flag is
// not persisted: a restart always comes back in light mode.
package theme

import "sync"

type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Palette is the computed set of colors views render with.
type Palette struct {
	Mode       Mode
	Background string
	Paper      string
	Text       string
	Muted      string
	Accent     string
	Divider    string
}

// Dark reports whether this palette is the dark one, for use in templates.
func (p Palette) Dark() bool {
	return p.Mode == ModeDark
}

var light = Palette{
	Mode:       ModeLight,
	Background: "#ffffff",
	Paper:      "#f5f5f5",
	Text:       "#121212",
	Muted:      "#878787",
	Accent:     "#fb641b",
	Divider:    "#d0d0d0",
}

var dark = Palette{
	Mode:       ModeDark,
	Background: "#121212",
	Paper:      "#1e1e1e",
	Text:       "#f0f0f0",
	Muted:      "#9e9e9e",
	Accent:     "#fb641b",
	Divider:    "#3a3a3a",
}

// Store is the theme store. Consumers read IsDark and Palette; only the
// toggle endpoint writes. Views render concurrently, hence the lock.
type Store struct {
	mu      sync.RWMutex
	dark    bool
	palette Palette
}

func NewStore() *Store {
	return &Store{palette: light}
}

// Toggle flips dark mode and recomputes the palette in the same step, so a
// view rendering right after the toggle already sees the new colors.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark = !s.dark
	if s.dark {
		s.palette = dark
	} else {
		s.palette = light
	}
}

func (s *Store) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

func (s *Store) Palette() Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.palette
}

package memorycard

// Theme selects the palette a card is rendered with
type Theme string

const (
	ThemePink   Theme = "pink"
	ThemePurple Theme = "purple"
	ThemeBlue   Theme = "blue"
	ThemeMint   Theme = "mint"
	ThemeGold   Theme = "gold"
	ThemeCream  Theme = "cream"
)

// DefaultTheme is applied when a card has no theme
const DefaultTheme = ThemePink

// Palette holds the colors of a theme
type Palette struct {
	Theme      Theme  `json:"theme"`
	Name       string `json:"name"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

var palettes = []Palette{
	{Theme: ThemePink, Name: "Rosa", Background: "#fdf2f8", Text: "#831843", Accent: "#ec4899"},
	{Theme: ThemePurple, Name: "Roxo", Background: "#f5f3ff", Text: "#4c1d95", Accent: "#8b5cf6"},
	{Theme: ThemeBlue, Name: "Azul", Background: "#eff6ff", Text: "#1e3a8a", Accent: "#3b82f6"},
	{Theme: ThemeMint, Name: "Menta", Background: "#ecfdf5", Text: "#064e3b", Accent: "#10b981"},
	{Theme: ThemeGold, Name: "Dourado", Background: "#fffbeb", Text: "#78350f", Accent: "#f59e0b"},
	{Theme: ThemeCream, Name: "Creme", Background: "#fefce8", Text: "#713f12", Accent: "#d6a85c"},
}

// IsValid checks if the theme is one of the known palettes
func (t Theme) IsValid() bool {
	for _, p := range palettes {
		if p.Theme == t {
			return true
		}
	}
	return false
}

// Palette returns the palette of t, falling back to the default theme
func (t Theme) Palette() Palette {
	for _, p := range palettes {
		if p.Theme == t {
			return p
		}
	}
	return palettes[0]
}

// Themes returns every palette in display order
func Themes() []Palette {
	out := make([]Palette, len(palettes))
	copy(out, palettes)
	return out
}

package configurator

import "github.com/yourorg/checkout-components/internal/sdk"

// Appearance selects the component theme.
type Appearance string

const (
	AppearanceDefault Appearance = "default"
	AppearanceDark    Appearance = "dark"
)

// Valid reports whether a is a known appearance.
func (a Appearance) Valid() bool {
	return a == AppearanceDefault || a == AppearanceDark
}

// DesignTokens returns nil for the SDK default theme.
func (a Appearance) DesignTokens() *sdk.DesignTokens {
	if a != AppearanceDark {
		return nil
	}
	t := DarkTheme()
	return &t
}

// DarkTheme is a high-contrast dark palette with the SDK's own font styles and
// uniform 12pt corners.
func DarkTheme() sdk.DesignTokens {
	return sdk.DesignTokens{
		Name: "dark",
		Colors: sdk.ColorTokens{
			Action:         "#186AFF",
			Background:     "#0D1117",
			Border:         "#30363D",
			Disabled:       "#6E7681",
			Error:          "#B3261E",
			FormBackground: "#161B22",
			FormBorder:     "#30363D",
			Inverse:        "#FFFFFF",
			Outline:        "#A6C8FF",
			Primary:        "#C9D1D9",
			Secondary:      "#8B949E",
			Success:        "#00CC2D",
		},
		Fonts: sdk.FontStyle{
			Button:     sdk.FontButton,
			Footnote:   sdk.FontFootnote,
			Input:      sdk.FontInput,
			Label:      sdk.FontLabel,
			Subheading: sdk.FontSubheading,
		},
		BorderButtonRadius: 12,
		BorderFormRadius:   12,
	}
}

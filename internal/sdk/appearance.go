package sdk

// ColorTokens are the colour roles of the SDK design system, as hex strings.
type ColorTokens struct {
	Action         string `json:"action"`
	Background     string `json:"background"`
	Border         string `json:"border"`
	Disabled       string `json:"disabled"`
	Error          string `json:"error"`
	FormBackground string `json:"form_background"`
	FormBorder     string `json:"form_border"`
	Inverse        string `json:"inverse"`
	Outline        string `json:"outline"`
	Primary        string `json:"primary"`
	Secondary      string `json:"secondary"`
	Success        string `json:"success"`
}

// FontRole names one of the SDK's built-in font styles.
type FontRole string

const (
	FontButton     FontRole = "button"
	FontFootnote   FontRole = "footnote"
	FontInput      FontRole = "input"
	FontLabel      FontRole = "label"
	FontSubheading FontRole = "subheading"
)

// FontStyle maps text roles to font styles.
type FontStyle struct {
	Button     FontRole `json:"button"`
	Footnote   FontRole `json:"footnote"`
	Input      FontRole `json:"input"`
	Label      FontRole `json:"label"`
	Subheading FontRole `json:"subheading"`
}

// DesignTokens fully describe a non-default appearance.
type DesignTokens struct {
	Name               string      `json:"name"`
	Colors             ColorTokens `json:"colors"`
	Fonts              FontStyle   `json:"fonts"`
	BorderButtonRadius float64     `json:"border_button_radius"`
	BorderFormRadius   float64     `json:"border_form_radius"`
}

package core

// Color is a foreground color for a screen cell. The platform layer maps
// each value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

// TokenPalette lists the colors used for match-3 tokens, in color-index
// order. Index i of the board palette renders as TokenPalette[i%len].
var TokenPalette = []Color{
	ColorRed,
	ColorGreen,
	ColorBlue,
	ColorYellow,
	ColorMagenta,
	ColorCyan,
	ColorOrange,
	ColorWhite,
}

// TokenGlyphs pairs with TokenPalette so colors stay distinguishable on
// monochrome terminals.
var TokenGlyphs = []rune{'●', '■', '▲', '◆', '★', '♥', '♣', '✚'}

// TokenColor returns the screen color for board color index i.
func TokenColor(i int) Color {
	return TokenPalette[i%len(TokenPalette)]
}

// TokenGlyph returns the glyph for board color index i.
func TokenGlyph(i int) rune {
	return TokenGlyphs[i%len(TokenGlyphs)]
}

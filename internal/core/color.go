package core

// Color is the foreground colour of a screen cell. The platform maps each
// value to an ANSI 256-colour style.
type Color uint8

// Palette.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
)

// Map roles. Runner and chaser keep the same colour on the map, in the move
// log and in the flash line.
const (
	ColorRunner = ColorBrightRed
	ColorChaser = ColorBrightCyan
	ColorTrail  = ColorGray
	ColorLand   = ColorDarkGray
)

package render

import (
	"strconv"

	"github.com/muesli/termenv"
)

// tone is an SGR colour: one of the eight base ANSI colours, optionally bold.
type tone struct {
	bold  bool
	color int
}

const (
	red = iota + 1
	green
	yellow
	blue
)

var (
	toneBlue       = tone{color: blue}
	toneBoldBlue   = tone{bold: true, color: blue}
	toneBoldGreen  = tone{bold: true, color: green}
	toneBoldYellow = tone{bold: true, color: yellow}
	toneYellow     = tone{color: yellow}
	toneBoldRed    = tone{bold: true, color: red}
	toneRed        = tone{color: red}
)

// usageTone grades a percentage from cold blue to hot red.
func usageTone(percent float64) tone {
	switch {
	case percent < 5:
		return toneBlue
	case percent < 10:
		return toneBoldBlue
	case percent < 25:
		return toneBoldGreen
	case percent < 50:
		return toneBoldYellow
	case percent < 75:
		return toneYellow
	case percent < 90:
		return toneBoldRed
	default:
		return toneRed
	}
}

// temperatureTone grades degrees Celsius. Unlike usage there is no bold
// blue step: anything under 39 °C is plain blue, as on the appliance console.
func temperatureTone(celsius float64) tone {
	switch {
	case celsius < 39:
		return toneBlue
	case celsius < 40:
		return toneBoldGreen
	case celsius < 45:
		return toneBoldYellow
	case celsius < 55:
		return toneYellow
	case celsius < 65:
		return toneBoldRed
	default:
		return toneRed
	}
}

func upDownTone(up bool) tone {
	if up {
		return toneBoldGreen
	}
	return toneRed
}

// paint wraps s in t's SGR sequence and a reset. The Ascii profile returns s untouched.
func paint(p termenv.Profile, t tone, s string) string {
	style := p.String(s)
	if t.bold {
		style = style.Bold()
	}
	return style.Foreground(p.Color(strconv.Itoa(t.color))).String()
}

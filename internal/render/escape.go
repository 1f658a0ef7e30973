package render

import (
	"fmt"

	"github.com/muesli/termenv"
)

// Escape sequences used by the renderer. The dashboard positions the cursor
// and clears lines itself; nothing here reads from the terminal.
var (
	cursorHome    = termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, 1, 1)
	cursorBody    = termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, 3, 1)
	clearScreen   = termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 2)
	clearScroll   = termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 3)
	clearLine     = termenv.CSI + "K"
	autoWrapOff   = termenv.CSI + "?7l"
	autoWrapOn    = termenv.CSI + "?7h"
	newLine       = "\n" + clearLine
	continuation  = newLine + indent
	indent        = "                "
	servicesLabel = "Services      :"
)

// FullClear is the sequence emitted when the whole screen is redrawn.
var FullClear = cursorHome + clearScreen

package term

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/inkwell-md/inkwell/internal/action"
)

// ctrlKeys maps control chords to action ids.
var ctrlKeys = map[tcell.Key]string{
	tcell.KeyCtrlB: action.Bold,
	tcell.KeyCtrlE: action.Italic,
	tcell.KeyCtrlT: action.Strikethrough,
	tcell.KeyCtrlK: action.InsertLink,
	tcell.KeyCtrlD: action.DuplicateLine,
	tcell.KeyCtrlN: action.ClearFormatting,
}

// altRunes maps alt-letter chords to action ids. Alt+1 through Alt+6 set
// heading levels and are handled separately.
var altRunes = map[rune]string{
	'0': action.Paragraph,
	'q': action.InsertBlockquote,
	'b': action.BulletList,
	'o': action.OrderedList,
	'x': action.TaskList,
	'c': action.InsertCodeBlock,
	'r': action.HorizontalRule,
	't': action.InsertTable,
	'f': action.InsertFootnote,
	'm': action.InsertMath,
	'i': action.InsertImage,
	'u': action.Unlink,
	'+': action.HeadingIncrease,
	'-': action.HeadingDecrease,
}

// lookupKey resolves a key event to an action id.
func lookupKey(ev *tcell.EventKey) (string, bool) {
	if id, ok := ctrlKeys[ev.Key()]; ok {
		return id, true
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModAlt != 0 {
		r := ev.Rune()
		if r >= '1' && r <= '6' {
			return action.HeadingPrefix + strconv.Itoa(int(r-'0')), true
		}
		if id, ok := altRunes[r]; ok {
			return id, true
		}
	}
	return "", false
}

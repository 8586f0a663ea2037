package action

// Source indicates the origin of an action.
type Source uint8

const (
	// SourceToolbar indicates the action originated from a toolbar click.
	SourceToolbar Source = iota
	// SourceMenu indicates the action originated from an application menu.
	SourceMenu
	// SourceKeyboard indicates the action originated from a key binding.
	SourceKeyboard
	// SourceScript indicates the action originated from a user script.
	SourceScript
	// SourceAPI indicates the action originated from an API call.
	SourceAPI
)

// String returns a string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceMenu:
		return "menu"
	case SourceKeyboard:
		return "keyboard"
	case SourceScript:
		return "script"
	case SourceAPI:
		return "api"
	default:
		return "toolbar"
	}
}

// Args holds arguments for an action invocation.
type Args struct {
	// Text is the primary text operand (link text, alt text, math body).
	Text string

	// Href is an explicit destination for link/image actions. When empty the
	// handler probes the clipboard instead.
	Href string

	// Language is the info string for code block insertion.
	Language string

	// Rows and Cols size a table insertion (defaults apply when zero).
	Rows, Cols int
}

// Action is a command to be executed by a surface dispatcher. The id is an
// open string enum; unknown ids are reported as not handled, never as errors.
type Action struct {
	// ID is the command identifier (e.g. "bold", "heading:3", "nestQuote").
	ID string

	// Args contains command-specific arguments.
	Args Args

	// Source indicates where this action originated.
	Source Source
}

// New creates an action with no arguments.
func New(id string) Action {
	return Action{ID: id}
}

// WithText returns a copy of the action with the text operand set.
func (a Action) WithText(text string) Action {
	a.Args.Text = text
	return a
}

// WithHref returns a copy of the action with an explicit destination.
func (a Action) WithHref(href string) Action {
	a.Args.Href = href
	return a
}

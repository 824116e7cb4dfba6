package model

// Command is one external tool invocation. Xvfb marks commands that
// need a display and must be wrapped in xvfb-run when the virtual
// display toggle is on.
type Command struct {
	Argv []string
	Xvfb bool
}

// Tool returns the executable name of the command.
func (c Command) Tool() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

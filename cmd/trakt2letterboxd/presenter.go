package main

import (
	"fmt"
	"io"

	"trakt2letterboxd/internal/trakt"
)

// consolePresenter prints device flow instructions and a dot per pending poll.
type consolePresenter struct {
	out      io.Writer
	colorize bool
	waiting  bool
}

func newConsolePresenter(out io.Writer) *consolePresenter {
	return &consolePresenter{out: out, colorize: shouldColorize(out)}
}

func (p *consolePresenter) ShowDeviceCode(code trakt.DeviceCode) {
	fmt.Fprintf(p.out, "\nGo to %s in your web browser and enter the code:\n\n", code.VerificationURL)
	fmt.Fprintf(p.out, "    %s\n\n", emphasize(code.UserCode, p.colorize))
	fmt.Fprintln(p.out, "After you've authenticated, return here to continue.")
	fmt.Fprint(p.out, "Waiting for authorization (Ctrl+C to abort)")
	p.waiting = true
}

func (p *consolePresenter) AwaitingAuthorization(int) {
	fmt.Fprint(p.out, ".")
}

// finish terminates the waiting line, if one was started.
func (p *consolePresenter) finish() {
	if p.waiting {
		fmt.Fprintln(p.out)
		p.waiting = false
	}
}

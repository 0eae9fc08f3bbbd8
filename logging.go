package lattice

import (
	"io"
	"os"

	"github.com/olekukonko/ll"
	"github.com/olekukonko/ll/lh"
)

// logger is the package trace log. It is disabled by default; malformed
// geometry absorbed during map construction is reported here so that callers
// debugging a misbehaving table can see what the engine had to tolerate.
var logger = ll.New("lattice").Handler(lh.NewTextHandler(os.Stderr))

func init() {
	logger.Disable()
	logger.Suspend()
}

// EnableTrace turns on package debug logging, writing to w.
func EnableTrace(w io.Writer) {
	logger.Handler(lh.NewTextHandler(w))
	logger.Enable()
	logger.Resume()
}

// DisableTrace turns package debug logging back off.
func DisableTrace() {
	logger.Disable()
	logger.Suspend()
}

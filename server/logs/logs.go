/******************************************************************************
 *
 *  Description :
 *    Package exposes info, warning and error loggers.
 *
 *****************************************************************************/

package logs

import (
	"io"
	"log"
	"os"
)

var (
	Info *log.Logger
	Warn *log.Logger
	Err  *log.Logger
)

// Init initializes the three loggers writing to the given destination.
// Pass nil to log to stdout.
func Init(out io.Writer, flags int) {
	if out == nil {
		out = os.Stdout
	}
	Info = log.New(out, "I", flags)
	Warn = log.New(out, "W", flags)
	Err = log.New(out, "E", flags)
}

func init() {
	// Default configuration in case Init is never called, e.g. in tests.
	Init(os.Stdout, log.LstdFlags|log.Lshortfile)
}

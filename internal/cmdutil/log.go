package cmdutil

import (
	"fmt"
	"io"
)

// Warnf writes a "WARN: " prefixed line to dst unless quiet is set or dst
// is nil.
func Warnf(dst io.Writer, quiet bool, format string, a ...any) {
	if quiet || dst == nil {
		return
	}
	_, _ = fmt.Fprintf(dst, "WARN: "+format+"\n", a...)
}

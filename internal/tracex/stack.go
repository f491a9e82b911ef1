package internaltracex

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	maxFrames     = 10
	maxStackBytes = 1024
)

// GetStackTrace renders the stack of the caller. skipLevels is passed to runtime.Callers:
// 0 is runtime.Callers itself, 1 is GetStackTrace and 2 is its caller. At most maxFrames
// frames are rendered and rendering stops once maxStackBytes is exceeded.
func GetStackTrace(skipLevels int) string {
	pc := make([]uintptr, maxFrames)
	n := runtime.Callers(skipLevels, pc)
	frames := runtime.CallersFrames(pc[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		_, _ = fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more || b.Len() > maxStackBytes {
			break
		}
	}

	return b.String()
}

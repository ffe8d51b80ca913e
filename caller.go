package xop

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/xoplog/xopbunyan-go/xopbase"
)

// callerMetadata fills in Target, File, and Line.  Skip 0 is
// callerMetadata itself, 1 is its caller, and so on.
func callerMetadata(skip int) xopbase.Metadata {
	var pc [1]uintptr
	if runtime.Callers(skip+1, pc[:]) == 0 {
		return xopbase.Metadata{}
	}
	frame, _ := runtime.CallersFrames(pc[:]).Next()
	return xopbase.Metadata{
		Target: packagePath(frame.Function),
		File:   frame.File,
		Line:   frame.Line,
	}
}

// packagePath turns "github.com/a/b/pkg.(*T).Method" into
// "github.com/a/b/pkg"
func packagePath(function string) string {
	dir, base := filepath.Split(function)
	if i := strings.IndexByte(base, '.'); i != -1 {
		base = base[:i]
	}
	return dir + base
}

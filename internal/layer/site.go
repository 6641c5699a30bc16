package layer

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Site is the source location where a layer was constructed.
type Site struct {
	File string
	Line int
}

// Caller captures the call site skip frames above the caller of Caller.
// Caller(0) is the line calling Caller; layer constructors pass Caller(1) to
// record the line that called them.
func Caller(skip int) Site {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{File: "unknown"}
	}
	return Site{File: file, Line: line}
}

// ShortFile returns the file path trimmed to its last three components.
func (s Site) ShortFile() string {
	return shortenPath(s.File)
}

func (s Site) String() string {
	return fmt.Sprintf("%s:%d", s.ShortFile(), s.Line)
}

func shortenPath(path string) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= 3 {
		return path
	}
	return "[...]/" + strings.Join(parts[len(parts)-3:], "/")
}

// Relocate moves l, and every node below it recorded at the same site, to
// site. Wrappers around constructors use it to report their own caller.
func Relocate[L Layer](l L, site Site) L {
	relocate(l, l.base().site, site)
	return l
}

func relocate(l Layer, from, to Site) {
	b := l.base()
	if b.site != from {
		return
	}
	b.site = to
	for _, sub := range b.sublayers {
		relocate(sub, from, to)
	}
}

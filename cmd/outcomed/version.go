package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the module version for `go install`ed binaries, and
// "devel-<VERSION>[+rev[-dirty]]" for local builds.
func Version() string {
	base := strings.TrimSpace(embeddedVersion)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) < 7 {
		return "devel-" + base
	}
	v := "devel-" + base + "+" + rev[:7]
	if dirty {
		v += "-dirty"
	}
	return v
}

// VersionCmd prints the server version and the Go toolchain it was built with.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	return c.write(os.Stdout)
}

func (c *VersionCmd) write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "outcomed %s (%s)\n", Version(), runtime.Version())
	return err
}

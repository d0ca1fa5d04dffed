// Package config implements the workspace contract the generator reads
// its target properties from: the two flags named in the original
// spec's §6 ("--x86_64", default, and "--mipsel"), plus an optional
// project file giving a default so callers don't have to pass a flag
// on every invocation.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Target identifies which of the two supported datalayout/triple pairs
// a Workspace has selected.
type Target int

const (
	TargetX86_64 Target = iota
	TargetMIPSEL
)

func (t Target) String() string {
	if t == TargetMIPSEL {
		return "mipsel"
	}
	return "x86_64"
}

// Workspace is the external collaborator the original spec treats as
// a black box exposing only a flag list (ws_get_flag in the original
// C). Grounded on the teacher's config.Config.SetTarget, trimmed to
// the two flags this component actually reads; every other flag is
// ignored, exactly as the original spec requires.
type Workspace struct {
	flags []string

	Target         Target
	WordSize       int
	PointerAlign   int
	DataLayout     string
	TargetTriple   string
}

// NewWorkspace builds a Workspace from a raw flag list, selecting
// whichever of "--x86_64"/"--mipsel" appears first, and "--x86_64"
// when neither does — mirroring the original C's architecture() scan,
// which stops at the first recognized target flag and defaults to
// x86_64 when it reaches the end of the flag list without one.
func NewWorkspace(flags []string) *Workspace {
	ws := &Workspace{flags: flags}
	ws.applyTarget(TargetX86_64)
	for _, f := range flags {
		if f == "--mipsel" {
			ws.applyTarget(TargetMIPSEL)
			break
		}
		if f == "--x86_64" {
			break
		}
	}
	return ws
}

func (ws *Workspace) applyTarget(t Target) {
	ws.Target = t
	switch t {
	case TargetMIPSEL:
		ws.WordSize = 4
		ws.PointerAlign = 4
		ws.DataLayout = "e-m:m-p:32:32-i8:8:32-i16:16:32-i64:64-n32-S64"
		ws.TargetTriple = "mipsel"
	default:
		ws.WordSize = 8
		ws.PointerAlign = 8
		ws.DataLayout = "e-m:e-i64:64-f80:128-n8:16:32:64-S128"
		ws.TargetTriple = "x86_64-pc-linux-gnu"
	}
}

// HasFlag reports whether a raw flag string was passed, for the rare
// caller that needs to know about a flag this component otherwise
// ignores.
func (ws *Workspace) HasFlag(flag string) bool {
	for _, f := range ws.flags {
		if f == flag {
			return true
		}
	}
	return false
}

// projectFile is the shape of an optional ruc.toml consulted by
// LoadDefaultTarget below.
type projectFile struct {
	Target string `toml:"target"`
}

// LoadDefaultTarget reads path (typically "ruc.toml") for a
// `target = "x86_64" | "mipsel"` key and returns the corresponding
// flag, or "" if the file doesn't exist; a file that sets no target
// yields "--x86_64", the default target. A command
// line flag should always override this.
func LoadDefaultTarget(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var pf projectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	switch pf.Target {
	case "", "x86_64":
		return "--x86_64", nil
	case "mipsel":
		return "--mipsel", nil
	default:
		return "", fmt.Errorf("%s: unrecognized target %q (want \"x86_64\" or \"mipsel\")", path, pf.Target)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/puml-render/pkg/types"
)

const defaultJava = "java"

// Invocation is a fully built engine command line.
type Invocation struct {
	Name string
	Args []string
}

// String renders the invocation for log output.
func (i Invocation) String() string {
	return strings.Join(append([]string{i.Name}, i.Args...), " ")
}

// Command builds the engine invocation for one conversion. Engines packaged
// as .jar files run through the java launcher; any other engine path is
// executed directly. The source path is always the final argument.
func Command(loc Location, java string, req types.ConversionRequest) Invocation {
	var inv Invocation
	if strings.EqualFold(filepath.Ext(string(loc)), ".jar") {
		if java == "" {
			java = defaultJava
		}
		inv = Invocation{Name: java, Args: []string{"-jar", string(loc)}}
	} else {
		inv = Invocation{Name: string(loc)}
	}

	inv.Args = append(inv.Args, req.Format.Flag())
	if req.OutputDir != "" {
		inv.Args = append(inv.Args, "--output-dir", req.OutputDir)
	}
	inv.Args = append(inv.Args, req.SourcePath)
	return inv
}

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plan-systems/klog"

	"github.com/ligneus/tannin/pkg/meshio"
)

var (
	output = flag.String("o", "", "write the resulting mesh to this file (.obj, .off or .stl)")
	stats  = flag.Bool("stats", false, "print surface statistics for each mesh")
	cells  = flag.Int("cells", 0, "marching cubes resolution for shape builtins (0 uses the default)")
	asJSON = flag.Bool("json", false, "emit render buffers as JSON on stdout")
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()

	input := flag.Arg(0)
	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: tannin [flags] <script.tannin | mesh file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	app := NewApp()
	opts := cliOptions{
		output: *output,
		stats:  *stats,
		asJSON: *asJSON,
		cells:  *cells,
	}

	// A recognized mesh extension means repair/convert mode, anything
	// else is treated as a script.
	var err error
	if meshio.DetectFormat(input) != meshio.FormatUnknown {
		err = app.convert(input, opts)
	} else {
		err = app.runScript(input, opts)
	}

	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

//go:build !(js && wasm)

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/voxelsplace/schem2vox/config"
	"github.com/voxelsplace/schem2vox/logging"
	"github.com/voxelsplace/schem2vox/utils"
	"github.com/voxelsplace/schem2vox/vox"
)

func usage() {
	fmt.Println("Usage: schem2vox <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  convert -i input -o output [flags]       (convert a .schematic, image or .asc grid to .vox)")
	fmt.Println("  batch -o output_dir [flags] input1 [input2 ...]  (convert several inputs into a directory)")
	fmt.Println("  voxinfo input.vox                        (print shapes, voxels and fingerprint of a .vox)")
	fmt.Println("  vox2glb input.vox output.glb             (convert .vox -> .glb using greedy mesh)")
	fmt.Println("Flags for convert and batch:")
	fmt.Println("  -w way  -iminy N  -imaxy N  -e  -s scale  -hm N  -c  -t  -v  -config file.toml")
}

// convertFlags holds the flags shared by convert and batch.
type convertFlags struct {
	way, minY, maxY, scale, heightmap int
	excavate, color, top, verify      bool
	configPath                        string
}

func (f *convertFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&f.way, "w", 0, "axis mapping: 0 keeps axes, 1 swaps X and Z")
	fs.IntVar(&f.minY, "iminy", -1, "lowest schematic layer to keep")
	fs.IntVar(&f.maxY, "imaxy", vox.MaxSize, "highest schematic layer to keep")
	fs.BoolVar(&f.excavate, "e", false, "remove voxels hidden on all six sides")
	fs.IntVar(&f.scale, "s", 1, "scale every voxel into an s*s*s block")
	fs.IntVar(&f.heightmap, "hm", 1, "heightmap height of a white pixel")
	fs.BoolVar(&f.color, "c", false, "colour heightmap voxels from the image")
	fs.BoolVar(&f.top, "t", false, "heightmap writes only the top voxel of each column")
	fs.BoolVar(&f.verify, "v", false, "read the output back and compare")
	fs.StringVar(&f.configPath, "config", "", "TOML configuration file")
}

// load reads the configuration file and lays explicitly set flags over it.
func (f *convertFlags) load(fs *flag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	c := &cfg.Convert
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "w":
			c.Way = f.way
		case "iminy":
			c.MinY = f.minY
		case "imaxy":
			c.MaxY = f.maxY
		case "e":
			c.Excavate = f.excavate
		case "s":
			c.Scale = f.scale
		case "hm":
			c.Heightmap = f.heightmap
		case "c":
			c.Color = f.color
		case "t":
			c.Top = f.top
		case "v":
			c.Verify = f.verify
		}
	})
	if err := c.Validate(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Logging.SetLogger()
}

func fail(err error) {
	color.Red("Error: %v", err)
	if vox.IsCapacity(err) {
		fmt.Println("Hint: lower the scale (-s) or crop the input.")
	}
	logging.Shutdown()
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "convert":
		fs := flag.NewFlagSet("convert", flag.ExitOnError)
		var f convertFlags
		f.register(fs)
		in := fs.String("i", "", "input file")
		out := fs.String("o", "", "output .vox file")
		fs.Parse(os.Args[2:])
		if *in == "" || *out == "" {
			usage()
			os.Exit(1)
		}
		cfg, err := f.load(fs)
		if err != nil {
			fail(err)
		}
		written, err := utils.RunConvert(*in, *out, cfg.Convert)
		if err != nil {
			fail(err)
		}
		color.Green("Wrote %s", written)
	case "batch":
		fs := flag.NewFlagSet("batch", flag.ExitOnError)
		var f convertFlags
		f.register(fs)
		out := fs.String("o", "", "output directory")
		fs.Parse(os.Args[2:])
		if *out == "" || fs.NArg() == 0 {
			usage()
			os.Exit(1)
		}
		cfg, err := f.load(fs)
		if err != nil {
			fail(err)
		}
		written, err := utils.RunBatch(fs.Args(), *out, cfg.Convert)
		if err != nil {
			fail(err)
		}
		color.Green("Wrote %d files to %s", len(written), *out)
	case "voxinfo":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		info, err := utils.RunVoxInfo(os.Args[2])
		if err != nil {
			fail(err)
		}
		fmt.Println(info)
	case "vox2glb":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunVOX2GLB(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(1)
	}
	logging.Shutdown()
}

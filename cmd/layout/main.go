package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/xyproto/env/v2"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/image-layout/image"
	"github.com/wippyai/image-layout/layout"
	"github.com/wippyai/image-layout/object"
	"github.com/wippyai/image-layout/script"
	"github.com/wippyai/image-layout/transfer"
)

func main() {
	os.Exit(realMain())
}

// realMain is the single exit point: returning lets deferred cleanup
// (notably the verbose logger flush) run before the process exits.
func realMain() int {
	var (
		scriptPath  = flag.String("script", env.Str("LAYOUT_SCRIPT", ""), "Path to layout script (default: built-in four-region contract)")
		baseStr     = flag.String("base", env.Str("LAYOUT_BASE", ""), "Base load address, overrides the script (e.g. 0x4000000)")
		outPath     = flag.String("o", "", "Write the flat image to this path")
		mapPath     = flag.String("map", "", "Write the placement map ('-' for stdout)")
		asmPath     = flag.String("symbols", "", "Write boundary symbols as an assembly include")
		goPath      = flag.String("gosym", "", "Write boundary symbols as a Go source file")
		goPkg       = flag.String("gopkg", "bootinfo", "Package name for -gosym output")
		sendDev     = flag.String("send", env.Str("LAYOUT_SEND", ""), "Transmit the image over this serial device (XMODEM)")
		list        = flag.Bool("list", false, "Print the placement map and exit")
		interactive = flag.Bool("i", false, "Interactive inspector")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: layout [flags] object.o ...")
		fmt.Fprintln(os.Stderr, "       layout -script layout.lds -o kernel.img object.o ...")
		fmt.Fprintln(os.Stderr, "       layout -list object.o ...")
		fmt.Fprintln(os.Stderr, "       layout -send /dev/ttyUSB0 object.o ...")
		fmt.Fprintln(os.Stderr, "       layout -i object.o ...  (interactive inspector)")
		flag.PrintDefaults()
		return 1
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer logger.Sync()
		layout.SetLogger(logger)
		object.SetLogger(logger)
		transfer.SetLogger(logger)
	}

	cfg, err := loadConfig(*scriptPath, *baseStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			return 1
		}
		if err := runInteractive(*cfg, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if err := run(*cfg, flag.Args(), *outPath, *mapPath, *asmPath, *goPath, *goPkg, *sendDev, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig compiles the layout script (or the built-in default) and
// applies the base address override.
func loadConfig(scriptPath, baseStr string) (*layout.Config, error) {
	var (
		cfg *layout.Config
		err error
	)
	if scriptPath != "" {
		cfg, err = script.CompileFile(scriptPath)
	} else {
		cfg, err = script.Compile(script.Default)
	}
	if err != nil {
		return nil, err
	}

	if baseStr != "" {
		base, err := strconv.ParseUint(baseStr, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("bad base address %q: %w", baseStr, err)
		}
		cfg.Base = base
	}
	return cfg, nil
}

func run(cfg layout.Config, objects []string, outPath, mapPath, asmPath, goPath, goPkg, sendDev string, listOnly bool) error {
	secs, err := object.ReadFiles(objects)
	if err != nil {
		return err
	}

	img, err := layout.Evaluate(cfg, secs)
	if err != nil {
		return err
	}

	if listOnly {
		return image.WriteMap(os.Stdout, img)
	}

	if mapPath == "-" {
		if err := image.WriteMap(os.Stdout, img); err != nil {
			return err
		}
	} else if mapPath != "" {
		if err := writeFile(mapPath, func(f *os.File) error {
			return image.WriteMap(f, img)
		}); err != nil {
			return err
		}
	}

	if asmPath != "" {
		if err := writeFile(asmPath, func(f *os.File) error {
			return image.WriteAsmSymbols(f, img)
		}); err != nil {
			return err
		}
	}

	if goPath != "" {
		if err := writeFile(goPath, func(f *os.File) error {
			return image.WriteGoSymbols(f, img, goPkg)
		}); err != nil {
			return err
		}
	}

	if outPath != "" {
		if err := writeFile(outPath, func(f *os.File) error {
			return image.Write(f, img)
		}); err != nil {
			return err
		}
		fmt.Printf("%s: %d stored bytes, %d sections, image length %#x\n",
			outPath, img.StoredSize(), img.SectionCount(), img.Symbols.ImageLength)
	}

	if sendDev != "" {
		if err := send(sendDev, img); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(path string, emit func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := emit(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

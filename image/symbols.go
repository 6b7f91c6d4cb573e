package image

import (
	"fmt"
	"io"

	"github.com/wippyai/image-layout/errors"
	"github.com/wippyai/image-layout/layout"
)

// WriteAsmSymbols renders the boundary symbols as an assembly include with
// one .equ per symbol, for the startup sequence that zeroes the bss and
// needs the image bounds before any runtime exists.
func WriteAsmSymbols(w io.Writer, img *layout.Image) error {
	for _, sym := range img.Symbols.List() {
		if _, err := fmt.Fprintf(w, ".equ %s, %#x\n", sym.Name, sym.Value); err != nil {
			return errors.Wrap(errors.PhaseEmit, errors.KindInvalidInput, err, "write asm symbols")
		}
	}
	return nil
}

// WriteGoSymbols renders the boundary symbols as a generated Go source file
// for host-side tooling (flashers, verifiers).
func WriteGoSymbols(w io.Writer, img *layout.Image, pkg string) error {
	if pkg == "" {
		return errors.InvalidInput(errors.PhaseEmit, "empty package name")
	}

	var b []byte
	b = fmt.Appendf(b, "// Code generated by image-layout. DO NOT EDIT.\n\n")
	b = fmt.Appendf(b, "package %s\n\nconst (\n", pkg)
	for _, sym := range img.Symbols.List() {
		b = fmt.Appendf(b, "\t%s = %#x\n", goName(sym.Name), sym.Value)
	}
	b = fmt.Appendf(b, ")\n")

	if _, err := w.Write(b); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindInvalidInput, err, "write go symbols")
	}
	return nil
}

// goName maps "__bss_start" to "BSSStart" style identifiers.
func goName(sym string) string {
	switch sym {
	case layout.SymImageStart:
		return "ImageStart"
	case layout.SymBSSStart:
		return "BSSStart"
	case layout.SymBSSEnd:
		return "BSSEnd"
	case layout.SymImageEnd:
		return "ImageEnd"
	case layout.SymBSSLength:
		return "BSSLength"
	case layout.SymImageLength:
		return "ImageLength"
	}
	return sym
}

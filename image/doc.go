// Package image emits the artifacts of a layout evaluation: the stored
// flat binary, a human-readable map, and boundary symbol exports for
// early-boot code.
//
// The stored image contains only loaded regions. Alignment padding between
// sections is written as zero bytes; the zero region contributes nothing.
//
//	img, _ := layout.Evaluate(cfg, secs)
//
//	f, _ := os.Create("kernel.img")
//	defer f.Close()
//	if err := image.Write(f, img); err != nil {
//	    return err
//	}
//
// Symbol exports come in two forms: an assembly include with .equ lines for
// the startup sequence, and a Go source file for host-side tooling.
package image

package image

import (
	"fmt"
	"io"
	"text/tabwriter"

	imagelayout "github.com/wippyai/image-layout"
	"github.com/wippyai/image-layout/errors"
	"github.com/wippyai/image-layout/layout"
)

// WriteMap renders a human-readable placement map: one line per region,
// indented lines per member section, then the boundary symbols.
func WriteMap(w io.Writer, img *layout.Image) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "image\tbase %#x\tend %#x\tlength %#x\tstored %#x\n",
		img.Base, img.Symbols.ImageEnd, img.Symbols.ImageLength, img.StoredSize())
	fmt.Fprintln(tw)

	for _, region := range img.Regions {
		load := "load"
		if region.NoLoad {
			load = "noload"
		}
		fmt.Fprintf(tw, "%s\t%#x\t%#x\t%s\n", region.Name, region.Addr, region.Size, load)
		for _, m := range region.Members {
			fmt.Fprintf(tw, "  %s\t%#x\t%#x\t%s\n",
				m.Section.Name, m.Addr, m.Section.Size, imagelayout.Classify(m.Section.Name))
		}
	}
	fmt.Fprintln(tw)

	for _, sym := range img.Symbols.List() {
		fmt.Fprintf(tw, "%s\t= %#x\t\t\n", sym.Name, sym.Value)
	}

	if err := tw.Flush(); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindInvalidInput, err, "write map")
	}
	return nil
}

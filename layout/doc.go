// Package layout implements the placement engine for bootable flat images.
//
// Evaluation is a pure function from a configuration and a list of input
// sections to an ordered set of regions and a table of boundary symbols.
// There is no global state; the same inputs always produce the same
// addresses.
//
//	img, err := layout.Evaluate(layout.DefaultConfig(0x4000000), sections)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("bss: [%#x, %#x)\n", img.Symbols.BSSStart, img.Symbols.BSSEnd)
//
// # Placement
//
// Regions are laid out strictly in configuration order, each folded over a
// running cursor that starts at the base address:
//
//  1. Sections matching a discard pattern are removed before anything else
//     and can never satisfy a region pattern.
//  2. Each remaining section joins the first region whose patterns claim it,
//     preserving input order. Patterns listed under First are hoisted to the
//     front of their region (the entry sequence must be the first bytes of
//     the image).
//  3. The cursor is aligned per region (AlignStart), members are placed at
//     their own alignment, and the cursor is aligned again on exit
//     (AlignEnd). Alignment is applied to absolute addresses.
//
// A NoLoad region reserves address space without contributing stored bytes;
// its bounds are exported so startup code can zero it.
//
// # Empty images
//
// With no input sections at all, no alignment is applied and every boundary
// symbol equals the base address: the image length is zero.
package layout

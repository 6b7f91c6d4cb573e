// Package script compiles the layout descriptor text format.
//
// A layout script is the reviewable form of the image contract: the base
// address, the ordered regions with their membership patterns and alignment
// rules, and the discard set. The grammar is s-expression based:
//
//	;; flat image loaded at 64 MiB
//	(base 0x4000000)
//
//	(discard ".comment*" ".note*" ".gnu*" ".eh_frame*")
//
//	(region code
//	  (first ".text.init*" ".init")
//	  (sections ".text*" ".init*"))
//
//	(region rodata
//	  (sections ".rodata*"))
//
//	(region data
//	  (orphans)
//	  (sections ".data*"))
//
//	(region bss
//	  (noload)
//	  (align-start 32)
//	  (align-end 8)
//	  (sections ".bss*")
//	  (late "COMMON" ".common*"))
//
// Regions are placed in the order they appear. Section patterns are exact
// names or a prefix followed by '*'. Numbers are decimal or 0x hex, with
// optional '_' separators. Comments run from ";;" to end of line or between
// "(;" and ";)".
//
// Compile the script into a placement configuration:
//
//	cfg, err := script.Compile(src)
//	if err != nil {
//	    return err
//	}
//	img, err := layout.Evaluate(*cfg, sections)
//
// Unknown forms and attributes are errors: a layout contract with a typo
// must fail the build, not silently place sections elsewhere.
package script

// Package imagelayout provides build-time memory layout tooling for bootable
// flat binary images loaded at a fixed physical address.
//
// The toolkit places compiled input sections into four contiguous regions
// (code, read-only data, initialized data, zero-initialized data), computes
// the boundary symbols very-early-boot code needs to initialize itself, and
// emits the stored image plus symbol exports.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	imagelayout/         Root package with the Section model and classification
//	├── layout/          Core placement engine: regions, alignment, boundary symbols
//	├── script/          Layout descriptor text format compiler
//	├── object/          ELF relocatable ingestion into Sections
//	├── image/           Flat image, map file, and symbol export writers
//	├── errors/          Structured error types for debugging
//	└── cmd/layout/      CLI and interactive layout inspector
//
// # Quick Start
//
// Lay out sections gathered from object files and write the image:
//
//	secs, err := object.ReadFiles(paths)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	img, err := layout.Evaluate(layout.DefaultConfig(0x4000000), secs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	f, _ := os.Create("kernel.img")
//	defer f.Close()
//	if err := image.Write(f, img); err != nil {
//	    log.Fatal(err)
//	}
//
// # Layout Contract
//
// Regions are placed in a fixed order regardless of input order:
//
//	init code → other code → read-only data → initialized data → zero region
//
// The zero region is reserved in the address space but contributes no bytes
// to the stored image; startup code clears it using the exported bounds:
//
//	__image_start    first byte of the image (the configured base address)
//	__bss_start      start of the zero region, aligned (default 32)
//	__bss_end        first address past the zero region, aligned (default 8)
//	__image_end      same as __bss_end
//	__bss_length     __bss_end - __bss_start
//	__image_length   __image_end - __image_start
//
// Metadata sections (.comment, .note*, .gnu*, .eh_frame*) are discarded
// before placement and never shift a symbol value.
//
// # Determinism
//
// Evaluation is a pure function of (configuration, input sections). The same
// inputs produce byte-identical images and identical symbol values on every
// build; there is no persisted or global state.
package imagelayout

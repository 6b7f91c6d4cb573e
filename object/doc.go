// Package object reads compiled ELF relocatables and extracts the input
// sections the layout engine places.
//
// Only section contents are consumed: relocations are not resolved (the
// layout contract has no relocation support) and symbol tables are read
// solely to aggregate COMMON blocks. Alloc sections and metadata sections
// the discard set may claim are returned; linking bookkeeping (.symtab,
// .strtab, relocation sections, debug info) is skipped at the source.
//
//	secs, err := object.ReadFiles([]string{"start.o", "kernel.o"})
//	if err != nil {
//	    return err
//	}
//	img, err := layout.Evaluate(cfg, secs)
//
// Multi-object input preserves file order and, within a file, section
// header order, so placement is stable across builds.
package object

package object

import (
	"debug/elf"
	stderrors "errors"
	"io"
	"strings"

	"go.uber.org/zap"

	imagelayout "github.com/wippyai/image-layout"
	"github.com/wippyai/image-layout/errors"
)

// CommonSectionName is the synthetic section aggregating COMMON symbols.
// One is emitted per object file that defines any.
const CommonSectionName = "COMMON"

// Read extracts input sections from one ELF object. name is used for
// diagnostics only.
func Read(r io.ReaderAt, name string) ([]imagelayout.Section, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, errors.Load(name, err)
	}
	defer f.Close()

	if f.Type != elf.ET_REL && f.Type != elf.ET_EXEC {
		return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
			File(name).
			Detail("unsupported ELF type %v, want relocatable or executable", f.Type).
			Build()
	}

	var out []imagelayout.Section
	for _, sec := range f.Sections {
		if !placeable(sec) {
			continue
		}

		s := imagelayout.Section{
			Name:  sec.Name,
			Size:  sec.Size,
			Align: sec.Addralign,
		}
		if sec.Type == elf.SHT_NOBITS {
			s.NoBits = true
		} else {
			data, err := sec.Data()
			if err != nil {
				return nil, errors.New(errors.PhaseLoad, errors.KindInvalidData).
					File(name).
					Section(sec.Name).
					Cause(err).
					Build()
			}
			s.Data = data
		}

		Logger().Debug("read section",
			zap.String("file", name),
			zap.String("section", s.Name),
			zap.Uint64("size", s.Size),
			zap.Bool("nobits", s.NoBits))
		out = append(out, s)
	}

	common, err := commonSection(f, name)
	if err != nil {
		return nil, err
	}
	if common != nil {
		out = append(out, *common)
	}

	return out, nil
}

// placeable filters out linking bookkeeping the layout never sees: symbol
// and string tables, relocations, and debug info. Alloc sections and
// discardable metadata (.comment, .note*, ...) pass through so the layout's
// discard set decides their fate.
func placeable(sec *elf.Section) bool {
	switch sec.Type {
	case elf.SHT_NULL, elf.SHT_SYMTAB, elf.SHT_STRTAB,
		elf.SHT_RELA, elf.SHT_REL, elf.SHT_GROUP, elf.SHT_SYMTAB_SHNDX:
		return false
	}
	if sec.Size == 0 {
		return false
	}
	if strings.HasPrefix(sec.Name, ".debug") || strings.HasPrefix(sec.Name, ".line") {
		return false
	}
	return true
}

// commonSection aggregates COMMON symbols into one synthetic NoBits section.
// For a COMMON symbol, Value holds its required alignment; each block is
// aligned within the aggregate the same way the zero region will align the
// aggregate itself.
func commonSection(f *elf.File, name string) (*imagelayout.Section, error) {
	syms, err := f.Symbols()
	if err != nil {
		if stderrors.Is(err, elf.ErrNoSymbols) {
			return nil, nil
		}
		return nil, errors.Load(name, err)
	}

	var total, maxAlign uint64
	found := false
	for _, sym := range syms {
		if sym.Section != elf.SHN_COMMON {
			continue
		}
		align := sym.Value
		if align == 0 {
			align = 1
		}
		if align&(align-1) != 0 {
			return nil, errors.BadAlign(errors.PhaseLoad, sym.Name, align)
		}
		total = (total + align - 1) &^ (align - 1)
		total += sym.Size
		if align > maxAlign {
			maxAlign = align
		}
		found = true
	}
	if !found {
		return nil, nil
	}

	Logger().Debug("aggregated common symbols",
		zap.String("file", name),
		zap.Uint64("size", total),
		zap.Uint64("align", maxAlign))

	return &imagelayout.Section{
		Name:   CommonSectionName,
		Size:   total,
		Align:  maxAlign,
		NoBits: true,
	}, nil
}

package object_test

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/image-layout/errors"
	"github.com/wippyai/image-layout/object"
)

// rawSection describes one section for the in-test ELF builder.
type rawSection struct {
	name    string
	data    []byte
	size    uint64 // used when data is nil (SHT_NOBITS)
	typ     uint32
	flags   uint64
	align   uint64
	link    uint32
	entsize uint64
}

const (
	shtProgbits = 1
	shtSymtab   = 2
	shtStrtab   = 3
	shtNobits   = 8
	shtRela     = 4

	shfWrite = 0x1
	shfAlloc = 0x2
	shfExec  = 0x4

	shnCommon = 0xfff2
)

// buildELF assembles a minimal ELF64 little-endian relocatable around the
// given sections. A NULL section and .shstrtab are added automatically.
func buildELF(t *testing.T, etype uint16, secs []rawSection) []byte {
	t.Helper()

	// string table for section names
	shstr := []byte{0}
	nameOff := make([]uint32, len(secs)+2)
	for i, s := range secs {
		nameOff[i+1] = uint32(len(shstr))
		shstr = append(shstr, s.name...)
		shstr = append(shstr, 0)
	}
	nameOff[len(secs)+1] = uint32(len(shstr))
	shstr = append(shstr, ".shstrtab"...)
	shstr = append(shstr, 0)

	secs = append(secs, rawSection{name: ".shstrtab", data: shstr, typ: shtStrtab, align: 1})

	const ehsize = 64
	buf := make([]byte, ehsize)

	type placed struct {
		off  uint64
		size uint64
	}
	place := make([]placed, len(secs))
	for i, s := range secs {
		align := s.align
		if align == 0 {
			align = 1
		}
		off := (uint64(len(buf)) + align - 1) &^ (align - 1)
		for uint64(len(buf)) < off {
			buf = append(buf, 0)
		}
		size := s.size
		if s.data != nil {
			size = uint64(len(s.data))
			buf = append(buf, s.data...)
		}
		place[i] = placed{off: off, size: size}
	}

	// section headers, 8-byte aligned
	shoff := (uint64(len(buf)) + 7) &^ 7
	for uint64(len(buf)) < shoff {
		buf = append(buf, 0)
	}

	le := binary.LittleEndian
	writeShdr := func(name uint32, typ uint32, flags, addr, off, size uint64, link, info uint32, align, entsize uint64) {
		var h [64]byte
		le.PutUint32(h[0:], name)
		le.PutUint32(h[4:], typ)
		le.PutUint64(h[8:], flags)
		le.PutUint64(h[16:], addr)
		le.PutUint64(h[24:], off)
		le.PutUint64(h[32:], size)
		le.PutUint32(h[40:], link)
		le.PutUint32(h[44:], info)
		le.PutUint64(h[48:], align)
		le.PutUint64(h[56:], entsize)
		buf = append(buf, h[:]...)
	}

	writeShdr(0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	for i, s := range secs {
		writeShdr(nameOff[i+1], s.typ, s.flags, 0, place[i].off, place[i].size,
			s.link, 0, s.align, s.entsize)
	}

	// ELF header
	copy(buf[0:], []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0})
	le.PutUint16(buf[16:], etype)
	le.PutUint16(buf[18:], 62) // EM_X86_64
	le.PutUint32(buf[20:], 1)
	le.PutUint64(buf[40:], shoff)
	le.PutUint16(buf[52:], ehsize)
	le.PutUint16(buf[58:], 64)                  // e_shentsize
	le.PutUint16(buf[60:], uint16(len(secs)+1)) // e_shnum
	le.PutUint16(buf[62:], uint16(len(secs)))   // e_shstrndx

	return buf
}

// symtab builds a symbol table with one COMMON symbol of the given
// alignment (carried in st_value) and size.
func symtab(nameOff uint32, align, size uint64) []byte {
	var sym [48]byte // null symbol + one entry
	le := binary.LittleEndian
	le.PutUint32(sym[24:], nameOff)
	sym[28] = 0x11 // GLOBAL OBJECT
	le.PutUint16(sym[30:], shnCommon)
	le.PutUint64(sym[32:], align)
	le.PutUint64(sym[40:], size)
	return sym[:]
}

func TestReadSections(t *testing.T) {
	obj := buildELF(t, 1 /* ET_REL */, []rawSection{
		{name: ".text", data: []byte{1, 2, 3, 4, 5, 6, 7, 8}, typ: shtProgbits, flags: shfAlloc | shfExec, align: 4},
		{name: ".data", data: []byte{9, 9, 9}, typ: shtProgbits, flags: shfAlloc | shfWrite, align: 1},
		{name: ".bss", size: 16, typ: shtNobits, flags: shfAlloc | shfWrite, align: 8},
		{name: ".comment", data: []byte("cc"), typ: shtProgbits, align: 1},
		{name: ".rela.text", data: make([]byte, 24), typ: shtRela, align: 8, entsize: 24},
	})

	secs, err := object.Read(bytes.NewReader(obj), "test.o")
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]int{}
	for i, s := range secs {
		byName[s.Name] = i
	}

	// .rela.text and .shstrtab are bookkeeping, not inputs
	if _, ok := byName[".rela.text"]; ok {
		t.Error("relocation section leaked through")
	}
	if _, ok := byName[".shstrtab"]; ok {
		t.Error("string table leaked through")
	}

	// .comment survives for the discard set to claim
	if _, ok := byName[".comment"]; !ok {
		t.Error("metadata section missing; the discard set must see it")
	}

	text := secs[byName[".text"]]
	if text.Size != 8 || text.Align != 4 || text.NoBits {
		t.Errorf(".text: got %+v", text)
	}
	if !bytes.Equal(text.Data, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf(".text data: got %v", text.Data)
	}

	bss := secs[byName[".bss"]]
	if !bss.NoBits || bss.Data != nil || bss.Size != 16 {
		t.Errorf(".bss: got %+v", bss)
	}

	// section header order preserved
	if byName[".text"] > byName[".data"] {
		t.Error("section order not preserved")
	}
}

func TestReadCommonSymbols(t *testing.T) {
	strtab := []byte("\x00buf\x00")
	obj := buildELF(t, 1, []rawSection{
		{name: ".text", data: []byte{0x90}, typ: shtProgbits, flags: shfAlloc | shfExec, align: 1},
		{name: ".symtab", data: symtab(1, 8, 32), typ: shtSymtab, align: 8, link: 3, entsize: 24},
		{name: ".strtab", data: strtab, typ: shtStrtab, align: 1},
	})

	secs, err := object.Read(bytes.NewReader(obj), "test.o")
	if err != nil {
		t.Fatal(err)
	}

	var common *struct {
		size, align uint64
	}
	for _, s := range secs {
		if s.Name == object.CommonSectionName {
			if !s.NoBits {
				t.Error("COMMON must be NoBits")
			}
			common = &struct{ size, align uint64 }{s.Size, s.Align}
		}
	}
	if common == nil {
		t.Fatal("missing synthetic COMMON section")
	}
	if common.size != 32 || common.align != 8 {
		t.Errorf("COMMON: got size %d align %d, want 32/8", common.size, common.align)
	}
}

func TestReadRejectsNonELF(t *testing.T) {
	_, err := object.Read(bytes.NewReader([]byte("definitely not an object")), "bad.o")
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindInvalidData}) {
		t.Errorf("expected load/invalid_data, got %v", err)
	}
}

func TestReadRejectsSharedObject(t *testing.T) {
	obj := buildELF(t, 3 /* ET_DYN */, []rawSection{
		{name: ".text", data: []byte{0x90}, typ: shtProgbits, flags: shfAlloc | shfExec, align: 1},
	})
	_, err := object.Read(bytes.NewReader(obj), "lib.so")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindUnsupported}) {
		t.Errorf("expected load/unsupported, got %v", err)
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.o")
	second := filepath.Join(dir, "b.o")

	if err := os.WriteFile(first, buildELF(t, 1, []rawSection{
		{name: ".text", data: []byte{1, 2}, typ: shtProgbits, flags: shfAlloc | shfExec, align: 1},
	}), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(second, buildELF(t, 1, []rawSection{
		{name: ".data", data: []byte{3}, typ: shtProgbits, flags: shfAlloc | shfWrite, align: 1},
	}), 0o644); err != nil {
		t.Fatal(err)
	}

	secs, err := object.ReadFiles([]string{first, second})
	if err != nil {
		t.Fatal(err)
	}
	if len(secs) != 2 || secs[0].Name != ".text" || secs[1].Name != ".data" {
		t.Errorf("file order not preserved: %+v", secs)
	}

	_, err = object.ReadFiles([]string{filepath.Join(dir, "missing.o")})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

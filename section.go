package imagelayout

import "strings"

// Class categorizes an input section for placement and reporting.
type Class int

const (
	// ClassUnknown is returned for sections no pattern claims.
	ClassUnknown Class = iota

	// ClassInitCode is entry-sequence code placed first in the code region.
	ClassInitCode

	// ClassCode is executable code.
	ClassCode

	// ClassROData is constant data.
	ClassROData

	// ClassData is mutable data with stored initial bytes.
	ClassData

	// ClassZeroData is explicitly zero-initialized data (no stored bytes).
	ClassZeroData

	// ClassCommon is implicit uninitialized data (COMMON symbols).
	ClassCommon

	// ClassComment is compiler version metadata.
	ClassComment

	// ClassNote is a generic note section.
	ClassNote

	// ClassVendor is vendor/tool annotation metadata.
	ClassVendor

	// ClassUnwind is exception-unwind frame metadata.
	ClassUnwind
)

func (c Class) String() string {
	switch c {
	case ClassInitCode:
		return "init-code"
	case ClassCode:
		return "code"
	case ClassROData:
		return "rodata"
	case ClassData:
		return "data"
	case ClassZeroData:
		return "zero-data"
	case ClassCommon:
		return "common"
	case ClassComment:
		return "comment"
	case ClassNote:
		return "note"
	case ClassVendor:
		return "vendor"
	case ClassUnwind:
		return "unwind"
	}
	return "unknown"
}

// Discardable reports whether sections of this class are metadata that must
// never appear in the output image.
func (c Class) Discardable() bool {
	switch c {
	case ClassComment, ClassNote, ClassVendor, ClassUnwind:
		return true
	}
	return false
}

// Stored reports whether sections of this class contribute bytes to the
// stored image. Zero-initialized and common data occupy address space only.
func (c Class) Stored() bool {
	switch c {
	case ClassInitCode, ClassCode, ClassROData, ClassData:
		return true
	}
	return false
}

// Section is a named input section produced by compiling a source unit.
//
// Size is the span the section occupies in the address space. For stored
// sections Size equals len(Data); for NoBits sections Data is nil and Size
// is the reservation length.
type Section struct {
	Name   string
	Data   []byte
	Size   uint64
	Align  uint64
	NoBits bool
}

// Classify maps a section name to its Class using conventional ELF naming.
//
// Longest-match wins: ".text.init" is init code even though ".text" matches
// the code pattern.
func Classify(name string) Class {
	switch {
	case name == ".init" || matchPrefix(name, ".text.init"):
		return ClassInitCode
	case matchPrefix(name, ".text"):
		return ClassCode
	case matchPrefix(name, ".rodata"):
		return ClassROData
	case matchPrefix(name, ".data"):
		return ClassData
	case matchPrefix(name, ".bss"):
		return ClassZeroData
	case name == "COMMON" || matchPrefix(name, ".common"):
		return ClassCommon
	case matchPrefix(name, ".comment"):
		return ClassComment
	case matchPrefix(name, ".note"):
		return ClassNote
	case matchPrefix(name, ".gnu"):
		return ClassVendor
	case matchPrefix(name, ".eh_frame"):
		return ClassUnwind
	}
	return ClassUnknown
}

// matchPrefix matches name against prefix itself or prefix followed by a
// separator, so ".data" claims ".data.rel" but not ".database".
func matchPrefix(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	if len(name) == len(prefix) {
		return true
	}
	return name[len(prefix)] == '.' || name[len(prefix)] == '_'
}

// Match reports whether a section name matches a placement pattern.
// A trailing '*' matches any suffix; anything else is an exact match.
func Match(name, pattern string) bool {
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}
	return name == pattern
}

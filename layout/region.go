package layout

import (
	imagelayout "github.com/wippyai/image-layout"
)

// Placed is an input section fixed at its final address.
type Placed struct {
	Section imagelayout.Section
	Addr    uint64
}

// End returns the first address past the section.
func (p Placed) End() uint64 {
	return p.Addr + p.Section.Size
}

// Region is a placed output region: a contiguous, named sub-range of the
// image with its member sections in final order.
type Region struct {
	Name    string
	Addr    uint64
	Size    uint64 // includes inter-member alignment padding
	NoLoad  bool
	Members []Placed
}

// End returns the first address past the region, before AlignEnd padding.
func (r Region) End() uint64 {
	return r.Addr + r.Size
}

// Image is the result of a layout evaluation: regions in placement order
// plus the derived boundary symbols.
type Image struct {
	Base    uint64
	Regions []Region
	Symbols Symbols
}

// Region returns the placed region with the given name, or nil.
func (img *Image) Region(name string) *Region {
	for i := range img.Regions {
		if img.Regions[i].Name == name {
			return &img.Regions[i]
		}
	}
	return nil
}

// StoredSize returns the number of bytes the image occupies on disk or
// flash: everything up to the end of the last loaded region, including
// alignment padding between stored sections. NoLoad regions contribute
// nothing.
func (img *Image) StoredSize() uint64 {
	end := img.Base
	for _, r := range img.Regions {
		if r.NoLoad {
			continue
		}
		if e := r.End(); e > end {
			end = e
		}
	}
	return end - img.Base
}

// SectionCount returns the total number of placed sections.
func (img *Image) SectionCount() int {
	n := 0
	for _, r := range img.Regions {
		n += len(r.Members)
	}
	return n
}

package layout

// Boundary symbol names exported for early-boot startup code.
const (
	SymImageStart  = "__image_start"
	SymBSSStart    = "__bss_start"
	SymBSSEnd      = "__bss_end"
	SymImageEnd    = "__image_end"
	SymBSSLength   = "__bss_length"
	SymImageLength = "__image_length"
)

// Symbols holds the boundary values derived from region placement. They are
// pure derived values: recomputed identically on every evaluation of the
// same inputs.
type Symbols struct {
	ImageStart  uint64
	BSSStart    uint64
	BSSEnd      uint64
	ImageEnd    uint64
	BSSLength   uint64
	ImageLength uint64
}

// Symbol is one named boundary value.
type Symbol struct {
	Name  string
	Value uint64
}

// List returns the symbols in their canonical export order.
func (s Symbols) List() []Symbol {
	return []Symbol{
		{SymImageStart, s.ImageStart},
		{SymBSSStart, s.BSSStart},
		{SymBSSEnd, s.BSSEnd},
		{SymImageEnd, s.ImageEnd},
		{SymBSSLength, s.BSSLength},
		{SymImageLength, s.ImageLength},
	}
}

// Lookup returns the value of a boundary symbol by name.
func (s Symbols) Lookup(name string) (uint64, bool) {
	for _, sym := range s.List() {
		if sym.Name == name {
			return sym.Value, true
		}
	}
	return 0, false
}

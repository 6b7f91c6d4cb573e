package layout

// Default alignments for the zero-initialized region. The start alignment
// satisfies bulk-clear and cache-line constraints on common targets; the end
// alignment keeps the image a whole number of words. Both are tuning
// constants, not universals: override them per region when the target
// requires it.
const (
	DefaultZeroStartAlign = 32
	DefaultZeroEndAlign   = 8
)

// RegionSpec describes one output region: its membership patterns and
// alignment rules. Patterns use the root package's Match syntax (exact name
// or prefix followed by '*').
type RegionSpec struct {
	// Name identifies the region in maps, symbols, and diagnostics.
	Name string

	// Patterns select member sections, in input order.
	Patterns []string

	// First names patterns whose sections are hoisted to the front of the
	// region, ahead of all other members. Used for entry-sequence code.
	First []string

	// Late names patterns gathered in a second pass after all Patterns
	// members, e.g. COMMON blocks after explicit .bss sections.
	Late []string

	// NoLoad marks the region as reserved address space with no stored
	// bytes in the output image.
	NoLoad bool

	// AlignStart aligns the region's start address. Zero means no
	// alignment beyond the running cursor.
	AlignStart uint64

	// AlignEnd aligns the address immediately past the region.
	AlignEnd uint64
}

// Config is the full layout contract: base address, ordered regions, and the
// discard set applied before placement.
type Config struct {
	// Base is the physical load address of the first image byte. No
	// validation is performed beyond address-space overflow during
	// placement; whether the value is loadable is the platform's burden.
	Base uint64

	// Regions are placed strictly in slice order.
	Regions []RegionSpec

	// Discards are section-name patterns stripped before classification.
	// A discarded section never occupies any region and never shifts a
	// symbol value.
	Discards []string

	// OrphanRegion receives stored sections no region pattern claims.
	// Empty means orphans are an error. NoBits orphans always join the
	// first NoLoad region instead.
	OrphanRegion string
}

// DefaultConfig returns the standard four-region contract at the given base
// address: code (init first), read-only data, initialized data, and a
// NoLoad zero region with the default alignments.
func DefaultConfig(base uint64) Config {
	return Config{
		Base: base,
		Regions: []RegionSpec{
			{
				Name:     "code",
				Patterns: []string{".text*", ".init*"},
				First:    []string{".text.init*", ".init"},
			},
			{
				Name:     "rodata",
				Patterns: []string{".rodata*"},
			},
			{
				Name:     "data",
				Patterns: []string{".data*"},
			},
			{
				Name:       "bss",
				Patterns:   []string{".bss*"},
				Late:       []string{"COMMON", ".common*"},
				NoLoad:     true,
				AlignStart: DefaultZeroStartAlign,
				AlignEnd:   DefaultZeroEndAlign,
			},
		},
		Discards: []string{
			".comment*",
			".note*",
			".gnu*",
			".eh_frame*",
		},
		OrphanRegion: "data",
	}
}

// Region returns the spec with the given name, or nil.
func (c *Config) Region(name string) *RegionSpec {
	for i := range c.Regions {
		if c.Regions[i].Name == name {
			return &c.Regions[i]
		}
	}
	return nil
}

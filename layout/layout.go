package layout

import (
	"go.uber.org/zap"

	imagelayout "github.com/wippyai/image-layout"
	"github.com/wippyai/image-layout/errors"
)

// Evaluate lays out the given sections according to cfg and returns the
// placed image with its boundary symbols.
//
// Evaluation order: discard filter, region assignment, then a single
// left-to-right fold of the regions over a cursor starting at cfg.Base.
// Input order is preserved within every region except for First hoisting.
func Evaluate(cfg Config, sections []imagelayout.Section) (*Image, error) {
	if err := validate(cfg, sections); err != nil {
		return nil, err
	}

	kept := applyDiscards(cfg.Discards, sections)
	groups, err := assign(cfg, kept)
	if err != nil {
		return nil, err
	}

	placed := 0
	for _, g := range groups {
		placed += len(g)
	}
	// An empty image has nothing to align past: every symbol collapses to
	// the base address.
	empty := placed == 0

	img := &Image{Base: cfg.Base}
	cursor := cfg.Base

	var bssStart, bssEnd uint64
	bssSeen := false

	for i, spec := range cfg.Regions {
		if !empty && spec.AlignStart > 1 {
			cursor, err = alignUp(cursor, spec.AlignStart, spec.Name)
			if err != nil {
				return nil, err
			}
		}

		region := Region{
			Name:   spec.Name,
			Addr:   cursor,
			NoLoad: spec.NoLoad,
		}

		for _, sec := range groups[i] {
			if sec.Align > 1 {
				cursor, err = alignUp(cursor, sec.Align, sec.Name)
				if err != nil {
					return nil, err
				}
			}
			region.Members = append(region.Members, Placed{Section: sec, Addr: cursor})
			next := cursor + sec.Size
			if next < cursor {
				return nil, errors.Overflow(errors.PhaseLayout, sec.Name, cursor)
			}
			cursor = next
		}

		region.Size = cursor - region.Addr

		if !empty && spec.AlignEnd > 1 {
			cursor, err = alignUp(cursor, spec.AlignEnd, spec.Name)
			if err != nil {
				return nil, err
			}
		}

		if spec.NoLoad && !bssSeen {
			bssStart = region.Addr
			bssEnd = cursor
			bssSeen = true
		}

		Logger().Debug("placed region",
			zap.String("region", region.Name),
			zap.Uint64("addr", region.Addr),
			zap.Uint64("size", region.Size),
			zap.Int("sections", len(region.Members)),
			zap.Bool("noload", region.NoLoad))

		img.Regions = append(img.Regions, region)
	}

	if !bssSeen {
		bssStart, bssEnd = cursor, cursor
	}

	img.Symbols = Symbols{
		ImageStart:  cfg.Base,
		BSSStart:    bssStart,
		BSSEnd:      bssEnd,
		ImageEnd:    cursor,
		BSSLength:   bssEnd - bssStart,
		ImageLength: cursor - cfg.Base,
	}

	return img, nil
}

func validate(cfg Config, sections []imagelayout.Section) error {
	seen := make(map[string]bool, len(cfg.Regions))
	for _, spec := range cfg.Regions {
		if seen[spec.Name] {
			return errors.Duplicate(errors.PhaseLayout, "region", spec.Name)
		}
		seen[spec.Name] = true

		if !powerOfTwo(spec.AlignStart) {
			return errors.BadAlign(errors.PhaseLayout, spec.Name, spec.AlignStart)
		}
		if !powerOfTwo(spec.AlignEnd) {
			return errors.BadAlign(errors.PhaseLayout, spec.Name, spec.AlignEnd)
		}
	}

	for _, sec := range sections {
		if !powerOfTwo(sec.Align) {
			return errors.BadAlign(errors.PhaseLayout, sec.Name, sec.Align)
		}
	}
	return nil
}

// applyDiscards strips metadata sections before classification, so a
// discarded section can never satisfy a region pattern.
func applyDiscards(patterns []string, sections []imagelayout.Section) []imagelayout.Section {
	if len(patterns) == 0 {
		return sections
	}
	kept := make([]imagelayout.Section, 0, len(sections))
	for _, sec := range sections {
		if matchAny(sec.Name, patterns) {
			Logger().Debug("discarded section", zap.String("section", sec.Name))
			continue
		}
		kept = append(kept, sec)
	}
	return kept
}

// assign groups sections by region. Each region claims its members in three
// passes over the remaining input: First patterns (hoisted), Patterns, then
// Late patterns. A section joins the first region that claims it.
func assign(cfg Config, sections []imagelayout.Section) ([][]imagelayout.Section, error) {
	groups := make([][]imagelayout.Section, len(cfg.Regions))
	claimed := make([]bool, len(sections))

	for r, spec := range cfg.Regions {
		for _, pass := range [][]string{spec.First, spec.Patterns, spec.Late} {
			if len(pass) == 0 {
				continue
			}
			for i, sec := range sections {
				if claimed[i] || !matchAny(sec.Name, pass) {
					continue
				}
				claimed[i] = true
				groups[r] = append(groups[r], sec)
			}
		}
	}

	for i, sec := range sections {
		if claimed[i] {
			continue
		}
		r, err := orphanRegion(cfg, sec)
		if err != nil {
			return nil, err
		}
		Logger().Warn("orphan section",
			zap.String("section", sec.Name),
			zap.String("region", cfg.Regions[r].Name))
		groups[r] = append(groups[r], sec)
	}

	return groups, nil
}

// orphanRegion picks a region for a section no pattern claims. NoBits
// orphans join the first NoLoad region; stored orphans join the configured
// orphan region.
func orphanRegion(cfg Config, sec imagelayout.Section) (int, error) {
	if sec.NoBits {
		for r, spec := range cfg.Regions {
			if spec.NoLoad {
				return r, nil
			}
		}
	}
	if cfg.OrphanRegion != "" {
		for r, spec := range cfg.Regions {
			if spec.Name == cfg.OrphanRegion {
				return r, nil
			}
		}
	}
	return 0, errors.New(errors.PhaseClassify, errors.KindNotFound).
		Section(sec.Name).
		Detail("no region claims section").
		Build()
}

func matchAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if imagelayout.Match(name, p) {
			return true
		}
	}
	return false
}

// powerOfTwo accepts zero: zero alignment means none.
func powerOfTwo(x uint64) bool {
	return x&(x-1) == 0
}

func alignUp(addr, align uint64, section string) (uint64, error) {
	aligned := (addr + align - 1) &^ (align - 1)
	if aligned < addr {
		return 0, errors.Overflow(errors.PhaseLayout, section, addr)
	}
	return aligned, nil
}

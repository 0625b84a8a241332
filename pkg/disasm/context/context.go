// Package context implements Context, the root object composing the
// global segment, the unknown segment, overlay segments, the banned
// address set, per-section relocations and the GOT (spec.md §4.3).
package context

import (
	"fmt"

	"github.com/spimgo/spimgo/pkg/disasm/got"
	"github.com/spimgo/spimgo/pkg/disasm/reloc"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// defaultGlobalVrom/Vram match Context.py's arbitrary initial ranges: they
// exist only so the global segment is constructible before the real ranges
// are known from the splits CSV; ChangeGlobalSegmentRanges replaces them.
const (
	defaultGlobalVromStart = 0x0
	defaultGlobalVromEnd   = 0x1000
	defaultGlobalVramStart = 0x80000000
	defaultGlobalVramEnd   = 0x80001000
)

// Context is the root of the whole symbol model.
type Context struct {
	globalSegment   *segment.SymbolsSegment
	unknownSegment  *segment.SymbolsSegment
	overlaySegments map[string]map[uint32]*segment.SymbolsSegment

	bannedSymbols map[uint32]bool

	relocInfosPerSection map[symbol.Section]map[uint32]reloc.RelocInfo

	GOT *got.Table

	totalVramStart     uint32
	totalVramEnd       uint32
	usingDefaultRanges bool
}

// New constructs a Context with the teacher-matching default global range
// and a full-address-space unknown segment.
func New() *Context {
	vromStart := uint32(defaultGlobalVromStart)
	vromEnd := uint32(defaultGlobalVromEnd)

	global := segment.New(symbol.GlobalSegmentCategory, &vromStart, &vromEnd, defaultGlobalVramStart, defaultGlobalVramEnd)

	unknown := segment.New(symbol.UnknownSegmentCategory, nil, nil, 0, 0xFFFFFFFF)
	unknown.IsTheUnknownSegment = true

	return &Context{
		globalSegment:        global,
		unknownSegment:       unknown,
		overlaySegments:      make(map[string]map[uint32]*segment.SymbolsSegment),
		bannedSymbols:        make(map[uint32]bool),
		relocInfosPerSection: make(map[symbol.Section]map[uint32]reloc.RelocInfo),
		GOT:                  got.New(),
		totalVramStart:       defaultGlobalVramStart,
		totalVramEnd:         defaultGlobalVramEnd,
		usingDefaultRanges:   true,
	}
}

func (c *Context) GlobalSegment() *segment.SymbolsSegment  { return c.globalSegment }
func (c *Context) UnknownSegment() *segment.SymbolsSegment { return c.unknownSegment }

// TotalVramRange returns the widest VRAM envelope covering the global
// segment and every overlay added so far.
func (c *Context) TotalVramRange() (uint32, uint32) {
	return c.totalVramStart, c.totalVramEnd
}

func (c *Context) widenTotalRange(vramStart, vramEnd uint32) {
	if c.usingDefaultRanges {
		c.totalVramStart, c.totalVramEnd = vramStart, vramEnd
		c.usingDefaultRanges = false
		return
	}
	if vramStart < c.totalVramStart {
		c.totalVramStart = vramStart
	}
	if vramEnd > c.totalVramEnd {
		c.totalVramEnd = vramEnd
	}
}

// ChangeGlobalSegmentRanges mutates the global segment and widens the
// total VRAM envelope (spec.md §4.3).
func (c *Context) ChangeGlobalSegmentRanges(vromStart, vromEnd *uint32, vramStart, vramEnd uint32) {
	c.globalSegment.ChangeRanges(vromStart, vromEnd, vramStart, vramEnd)
	c.widenTotalRange(vramStart, vramEnd)
}

// AddOverlaySegment creates (or returns the existing) segment keyed by
// (category, vromStart), widening the total VRAM envelope.
func (c *Context) AddOverlaySegment(category string, vromStart, vromEnd uint32, vramStart, vramEnd uint32) *segment.SymbolsSegment {
	byVrom, ok := c.overlaySegments[category]
	if !ok {
		byVrom = make(map[uint32]*segment.SymbolsSegment)
		c.overlaySegments[category] = byVrom
	}
	if existing, ok := byVrom[vromStart]; ok {
		return existing
	}

	seg := segment.New(category, &vromStart, &vromEnd, vramStart, vramEnd)
	byVrom[vromStart] = seg
	c.widenTotalRange(vramStart, vramEnd)
	return seg
}

// TryAddOverlaySegment is AddOverlaySegment's fallible counterpart for
// overlay ranges parsed from untrusted CSV input (spec.md §7's "invalid
// input" class, as opposed to the programmer-error ranges AddOverlaySegment
// assumes are already validated).
func (c *Context) TryAddOverlaySegment(category string, vromStart, vromEnd, vramStart, vramEnd uint32) (*segment.SymbolsSegment, error) {
	byVrom, ok := c.overlaySegments[category]
	if ok {
		if existing, ok := byVrom[vromStart]; ok {
			return existing, nil
		}
	}

	seg, err := segment.TryNew(category, &vromStart, &vromEnd, vramStart, vramEnd)
	if err != nil {
		return nil, err
	}

	if !ok {
		byVrom = make(map[uint32]*segment.SymbolsSegment)
		c.overlaySegments[category] = byVrom
	}
	byVrom[vromStart] = seg
	c.widenTotalRange(vramStart, vramEnd)
	return seg, nil
}

// OverlaySegment returns the segment for (category, vromStart), if any.
func (c *Context) OverlaySegment(category string, vromStart uint32) (*segment.SymbolsSegment, bool) {
	byVrom, ok := c.overlaySegments[category]
	if !ok {
		return nil, false
	}
	seg, ok := byVrom[vromStart]
	return seg, ok
}

// OverlayCategories returns every overlay category name added so far.
func (c *Context) OverlayCategories() []string {
	out := make([]string, 0, len(c.overlaySegments))
	for category := range c.overlaySegments {
		out = append(out, category)
	}
	return out
}

// OverlaySegmentsInCategory returns every segment under category, keyed by
// VROM start.
func (c *Context) OverlaySegmentsInCategory(category string) map[uint32]*segment.SymbolsSegment {
	return c.overlaySegments[category]
}

// FillDefaultBannedSymbols seeds the fixed N64 banned-address set (spec.md
// §6): addresses that must never be created or emitted as symbols.
func (c *Context) FillDefaultBannedSymbols() {
	for _, vram := range segment.N64DefaultBanned {
		c.bannedSymbols[vram] = true
	}
}

// IsBanned reports whether vram must never be treated as a symbol.
func (c *Context) IsBanned(vram uint32) bool {
	return c.bannedSymbols[vram]
}

// BanSymbol adds vram to the banned set explicitly (e.g. from user CSV
// input), beyond the fixed N64 default set.
func (c *Context) BanSymbol(vram uint32) {
	c.bannedSymbols[vram] = true
}

// AddRelocInfo registers a relocation override for vram within section.
func (c *Context) AddRelocInfo(section symbol.Section, vram uint32, info reloc.RelocInfo) {
	bySection, ok := c.relocInfosPerSection[section]
	if !ok {
		bySection = make(map[uint32]reloc.RelocInfo)
		c.relocInfosPerSection[section] = bySection
	}
	bySection[vram] = info
}

// GetRelocInfo returns the relocation registered at vram within section,
// if any (spec.md §4.3).
func (c *Context) GetRelocInfo(section symbol.Section, vram uint32) (reloc.RelocInfo, bool) {
	bySection, ok := c.relocInfosPerSection[section]
	if !ok {
		return reloc.RelocInfo{}, false
	}
	info, ok := bySection[vram]
	return info, ok
}

// DoesSectionHaveRelocs reports whether any relocation at all is
// registered for section.
func (c *Context) DoesSectionHaveRelocs(section symbol.Section) bool {
	return len(c.relocInfosPerSection[section]) > 0
}

// InitGOTTable creates a ContextSymbol in the global segment for every
// global GOT entry, marked isUserDeclared and isGotGlobal (spec.md §4.3,
// §4.8); locals never get a symbol.
func (c *Context) InitGOTTable(pltGot uint32, locals, globals []uint32) {
	c.GOT.InitTables(pltGot, locals, globals, func(address uint32) *symbol.ContextSymbol {
		sym := c.globalSegment.AddSymbol(address, symbol.SectionData, false, nil)
		sym.IsUserDeclared = true
		sym.IsGotGlobal = true
		return sym
	})
}

// SegmentFor resolves the owning segment for a vram lookup, consulting the
// overlay segment named by category (if any matches the vram range), then
// the global segment, then the unknown segment — the lookup order from
// spec.md §4.3.
func (c *Context) SegmentFor(category string, vram uint32) *segment.SymbolsSegment {
	if category != "" {
		if byVrom, ok := c.overlaySegments[category]; ok {
			for _, seg := range byVrom {
				if seg.IsVramInRange(vram) {
					return seg
				}
			}
		}
	}
	if c.globalSegment.IsVramInRange(vram) {
		return c.globalSegment
	}
	return c.unknownSegment
}

// GetSymbol resolves vram the same way SegmentFor does and then delegates
// to the chosen segment's GetSymbol.
func (c *Context) GetSymbol(category string, vram uint32, tryPlusOffset, checkUpperLimit bool) (*symbol.ContextSymbol, bool) {
	if c.IsBanned(vram) {
		return nil, false
	}
	return c.SegmentFor(category, vram).GetSymbol(vram, tryPlusOffset, checkUpperLimit)
}

// String renders a short human-readable summary, used by `spimgo context
// dump`.
func (c *Context) String() string {
	totalLo, totalHi := c.TotalVramRange()
	return fmt.Sprintf("Context{global=[0x%08X,0x%08X) total=[0x%08X,0x%08X) overlays=%d}",
		c.globalSegment.VramStart(), c.globalSegment.VramEnd(), totalLo, totalHi, len(c.overlaySegments))
}

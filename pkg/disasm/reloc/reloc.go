// Package reloc implements RelocInfo, the per-word relocation override
// consulted by section analyzers before falling back to plain pointer
// classification (spec.md §4.5 point 1).
package reloc

import "fmt"

// Type is the ELF-style relocation kind carried by a RelocInfo. The exact
// kind doesn't change the resolution contract for this disassembler (it
// only ever reads the addend through the word value), so it's kept as an
// opaque label rather than a full MIPS relocation enum.
type Type string

const (
	TypeHi16   Type = "R_MIPS_HI16"
	TypeLo16   Type = "R_MIPS_LO16"
	Type26     Type = "R_MIPS_26"
	Type32     Type = "R_MIPS_32"
	TypeGprel  Type = "R_MIPS_GPREL32"
	TypeGot16  Type = "R_MIPS_GOT16"
)

// RelocInfo is registered at a given vram within a given section; it
// overrides how a DataSection/RodataSection word is rendered.
type RelocInfo struct {
	Kind Type

	// ReferencedSectionVram, when set, is the vram the relocated section
	// starts at; the final reference is ReferencedSectionVram + word.
	ReferencedSectionVram *uint32

	// Name is used instead when ReferencedSectionVram is unset: the
	// reference renders as Name + word (spec.md §4.5 point 1).
	Name string
}

// Resolve returns the vram this relocation points at, when it carries a
// section-relative base.
func (r RelocInfo) Resolve(word uint32) (uint32, bool) {
	if r.ReferencedSectionVram == nil {
		return 0, false
	}
	return *r.ReferencedSectionVram + word, true
}

// GetNamePlusOffset renders "name + word" (or bare "name" when word is 0),
// used when the relocation carries a symbol name instead of a section base.
func (r RelocInfo) GetNamePlusOffset(word uint32) string {
	if word == 0 {
		return r.Name
	}
	return fmt.Sprintf("%s + 0x%X", r.Name, word)
}

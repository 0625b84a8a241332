// Package symbol implements ContextSymbol, the per-address record that
// every other pkg/disasm package indexes, classifies and emits.
package symbol

// Section is the output section a symbol belongs to.
type Section int

const (
	SectionUnknown Section = iota
	SectionText
	SectionData
	SectionRodata
	SectionBss
)

func (s Section) String() string {
	switch s {
	case SectionText:
		return "text"
	case SectionData:
		return "data"
	case SectionRodata:
		return "rodata"
	case SectionBss:
		return "bss"
	default:
		return "unknown"
	}
}

// Ref is a stable, comparable reference to a ContextSymbol: its owning
// segment plus its address. Design notes (spec.md §9) call for indices
// instead of direct pointers so reference sets stay comparable and so
// ContextSymbols can live in a per-segment arena; SegmentKey identifies the
// segment without requiring a pointer back to it.
type Ref struct {
	Segment SegmentKey
	Vram    uint32
}

// SegmentKey identifies a SymbolsSegment: the global segment and the
// unknown segment use fixed sentinel categories, overlay segments use their
// category name plus VROM start (matching Context's
// map[category]map[vromStart]*SymbolsSegment layout).
type SegmentKey struct {
	Category  string
	VromStart uint32
}

const (
	GlobalSegmentCategory  = ""
	UnknownSegmentCategory = "\x00unknown"
)

// ContextSymbol is the per-address symbol record described in spec.md §3.
type ContextSymbol struct {
	Vram uint32
	Vrom *uint32

	Name     string
	UserType string // set when Type == symbol.UserType-equivalent tag isn't enough (a free-form user type string from the variables CSV)

	Type    Type
	Size    *uint32
	Section Section

	IsDefined       bool
	IsUserDeclared  bool
	IsAutogenerated bool
	IsGotLocal      bool
	IsGotGlobal     bool
	IsElfNotype     bool
	UnknownSegment  bool

	OverlayCategory string

	ReferenceFunctions map[Ref]bool
	ReferenceSymbols   map[Ref]bool

	// FailedStringDecoding latches once a String symbol's bytes fail to
	// decode cleanly; emitters fall back to word rendering forever after
	// (spec.md §7).
	FailedStringDecoding bool
}

// New constructs a zero-value ContextSymbol at the given address, matching
// the defaults SymbolsSegment.addSymbol assigns on first creation.
func New(vram uint32) *ContextSymbol {
	return &ContextSymbol{
		Vram:               vram,
		Section:            SectionUnknown,
		Type:               Unknown,
		ReferenceFunctions: make(map[Ref]bool),
		ReferenceSymbols:   make(map[Ref]bool),
	}
}

// IsGot reports whether the symbol is bound to any GOT table.
func (s *ContextSymbol) IsGot() bool {
	return s.IsGotLocal || s.IsGotGlobal
}

// EndVram returns the exclusive end address covered by the symbol when its
// size is known.
func (s *ContextSymbol) EndVram() (uint32, bool) {
	if s.Size == nil {
		return 0, false
	}
	return s.Vram + *s.Size, true
}

// ContainsAddend reports whether target lies within [s.Vram, s.Vram+size),
// the addend-reference test from spec.md's glossary and §4.5 step 1.
func (s *ContextSymbol) ContainsAddend(target uint32) bool {
	end, ok := s.EndVram()
	if !ok {
		return target == s.Vram
	}
	return target >= s.Vram && target < end
}

// Addend returns target - s.Vram, valid only when ContainsAddend(target).
func (s *ContextSymbol) Addend(target uint32) uint32 {
	return target - s.Vram
}

// DisplayName returns the symbol's name, synthesizing the canonical
// autogenerated form (FLT_/DBL_/STR_/jtbl_/func_/D_ prefix plus the vram in
// hex) from spec.md §4.5 point 4 when none was ever assigned.
func (s *ContextSymbol) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return autogenName(s.Type, s.Vram)
}

func autogenName(t Type, vram uint32) string {
	prefix := "D_"
	switch t {
	case Float:
		prefix = "FLT_"
	case Double:
		prefix = "DBL_"
	case String, CString:
		prefix = "STR_"
	case JumpTable:
		prefix = "jtbl_"
	case Function:
		prefix = "func_"
	}
	return formatAutogenName(prefix, vram)
}

func formatAutogenName(prefix string, vram uint32) string {
	const hexDigits = "0123456789ABCDEF"
	buf := make([]byte, len(prefix)+8)
	copy(buf, prefix)
	for i := 7; i >= 0; i-- {
		buf[len(prefix)+i] = hexDigits[vram&0xF]
		vram >>= 4
	}
	return string(buf)
}

// Rename assigns name, refusing to overwrite a user-declared symbol's name
// per spec.md §3's "user-declared symbols are never renamed" invariant.
func (s *ContextSymbol) Rename(name string) {
	if s.IsUserDeclared {
		return
	}
	s.Name = name
}

// SetType applies the upgrade lattice, refusing to touch a user-declared
// symbol's terminal type.
func (s *ContextSymbol) SetType(candidate Type) {
	if s.IsUserDeclared {
		return
	}
	s.Type = Upgrade(s.Type, candidate)
}

// ClearType forces the type back to Unknown, used by the Double fallback
// paths in the emitter. A String decode failure does not change the type;
// it only latches FailedStringDecoding.
func (s *ContextSymbol) ClearType() {
	if s.IsUserDeclared {
		return
	}
	s.Type = Unknown
}

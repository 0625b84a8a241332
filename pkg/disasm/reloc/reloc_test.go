package reloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveRequiresSectionBase(t *testing.T) {
	base := uint32(0x80804000)
	withBase := RelocInfo{Kind: TypeGprel, ReferencedSectionVram: &base}
	vram, ok := withBase.Resolve(0x20)
	assert.True(t, ok)
	assert.Equal(t, uint32(0x80804020), vram)

	withoutBase := RelocInfo{Kind: TypeHi16, Name: "D_80900000"}
	_, ok = withoutBase.Resolve(0x20)
	assert.False(t, ok)
}

func TestGetNamePlusOffsetOmitsZeroAddend(t *testing.T) {
	r := RelocInfo{Name: "gMtxPtr"}
	assert.Equal(t, "gMtxPtr", r.GetNamePlusOffset(0))
	assert.Equal(t, "gMtxPtr + 0x8", r.GetNamePlusOffset(8))
}

package loader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

func TestReadFunctionsCSVSkipsDashRow(t *testing.T) {
	seg := segment.New("", nil, nil, 0x80000000, 0x80100000)
	csv := "0x80001000,foo\n-,bar\n"

	errs := ReadFunctionsCSV(strings.NewReader(csv), seg)
	assert.Empty(t, errs)

	sym, ok := seg.GetSymbol(0x80001000, false, true)
	require.True(t, ok)
	assert.Equal(t, "foo", sym.Name)
	assert.True(t, sym.IsUserDeclared)

	assert.Len(t, seg.AllSymbols(), 1)
}

func TestSaveAndLoadContextRoundTrip(t *testing.T) {
	seg := segment.New("", nil, nil, 0x80000000, 0x80100000)
	fn := seg.AddFunction(0x80001000, false, nil)
	fn.Name = "foo"
	fn.IsUserDeclared = true
	size := uint32(0x40)
	fn.Size = &size

	data := serializeSegment(seg)

	reloaded := segment.New("", nil, nil, 0x80000000, 0x80100000)
	err := LoadContext(bytes.NewReader(data), reloaded)
	require.NoError(t, err)

	got, ok := reloaded.GetSymbol(0x80001000, false, true)
	require.True(t, ok)
	assert.Equal(t, "foo", got.Name)
	assert.Equal(t, symbol.Function, got.Type)
	assert.True(t, got.IsUserDeclared)
	require.NotNil(t, got.Size)
	assert.Equal(t, uint32(0x40), *got.Size)
}

func TestReadVariablesCSVMapsValueTypeTags(t *testing.T) {
	seg := segment.New("", nil, nil, 0x80000000, 0x80100000)
	csv := strings.Join([]string{
		"0x80001000,fVal,float,0x4",
		"0x80001004,dVal,double,0x8",
		"0x8000100C,sVal,string,-",
		"0x80001020,csVal,cstring,-",
		"0x80001024,bVal,byte,0x1",
		"0x80001028,shVal,short,0x2",
		"0x8000102C,wVal,word,0x4",
	}, "\n") + "\n"

	errs := ReadVariablesCSV(strings.NewReader(csv), seg)
	require.Empty(t, errs)

	cases := []struct {
		vram uint32
		want symbol.Type
	}{
		{0x80001000, symbol.Float},
		{0x80001004, symbol.Double},
		{0x8000100C, symbol.String},
		{0x80001020, symbol.CString},
		{0x80001024, symbol.Byte},
		{0x80001028, symbol.Short},
		{0x8000102C, symbol.Word},
	}
	for _, c := range cases {
		sym, ok := seg.GetSymbol(c.vram, false, true)
		require.True(t, ok, "0x%08X", c.vram)
		assert.Equal(t, c.want, sym.Type, "0x%08X", c.vram)
		assert.True(t, sym.IsUserDeclared)
	}
}

func TestReadGotCSVInitializesTableAndDeclaresGlobals(t *testing.T) {
	ctx := context.New()
	csv := "plt,0x80010000\nlocal,0x80020000\nglobal,0x80030000\n"

	errs := ReadGotCSV(strings.NewReader(csv), ctx)
	assert.Empty(t, errs)

	seg := ctx.GlobalSegment()
	sym, ok := seg.GetSymbol(0x80030000, false, true)
	require.True(t, ok)
	assert.True(t, sym.IsGotGlobal)
	assert.True(t, sym.IsUserDeclared)

	_, ok = seg.GetSymbol(0x80020000, false, true)
	assert.False(t, ok, "GOT locals never get a symbol")
}

func TestReadGotCSVRequiresPltRow(t *testing.T) {
	ctx := context.New()
	errs := ReadGotCSV(strings.NewReader("local,0x80020000\n"), ctx)
	require.NotEmpty(t, errs)
}

func TestReadOverlaysCSVAddsValidRowsAndReportsInvalidOnes(t *testing.T) {
	ctx := context.New()
	csv := "boss_ganon,0x100000,0x110000,0x80800000,0x80810000\nbad,0x100000,0xFF,0x80800000,0x80810000\n"

	errs := ReadOverlaysCSV(strings.NewReader(csv), ctx)
	require.Len(t, errs, 1)

	seg, ok := ctx.OverlaySegment("boss_ganon", 0x100000)
	require.True(t, ok)
	assert.Equal(t, uint32(0x80800000), seg.VramStart())

	_, ok = ctx.OverlaySegment("bad", 0x100000)
	assert.False(t, ok)
}

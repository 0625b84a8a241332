// Package pipeline implements the two-pass fixed-point orchestration from
// spec.md §5: given a splits CSV and a raw ROM, run Text, Rodata, Data and
// Bss analysis over every split in file order, then rerun the pass once
// more so jump tables discovered late in file order can still expand
// their rodata-sourced entries, before handing every symbol to the emit
// package.
package pipeline

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/spimgo/spimgo/internal/config"
	"github.com/spimgo/spimgo/internal/loader"
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/emit"
	"github.com/spimgo/spimgo/pkg/disasm/section"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// Split is one file-level chunk carved out of the ROM by the splits CSV,
// resolved to its byte range and owning segment.
type Split struct {
	Row  loader.SplitRow
	Size uint32
}

// Rom is the raw binary being disassembled, addressed by VROM offset.
type Rom []byte

func (r Rom) slice(vromStart, size uint32) []byte {
	end := vromStart + size
	if end > uint32(len(r)) {
		end = uint32(len(r))
	}
	if vromStart >= uint32(len(r)) {
		return nil
	}
	return r[vromStart:end]
}

// File is one rendered output unit: the split's filename plus its
// assembled text.
type File struct {
	Filename string
	Assembly string
}

// Run executes the full pipeline: segment selection, two analysis passes,
// and emission, returning one File per distinct split filename, ordered by
// the file offset of that filename's first split (splits is sorted by
// offset in place).
func Run(cfg config.Config, ctx *context.Context, seg *segment.SymbolsSegment, rom Rom, splits []Split) ([]File, error) {
	if len(splits) == 0 {
		return nil, fmt.Errorf("pipeline: no splits to analyze")
	}

	sort.Slice(splits, func(i, j int) bool { return splits[i].Row.Offset < splits[j].Row.Offset })

	endian := section.BigEndian
	if cfg.Endian == config.EndianLittle {
		endian = section.LittleEndian
	}

	wordAt := func(b []byte) uint32 {
		if cfg.Endian == config.EndianLittle {
			return binary.LittleEndian.Uint32(b)
		}
		return binary.BigEndian.Uint32(b)
	}

	rodataBytesByVram := make(map[uint32][]byte)
	rodataWordAt := func(vram uint32) (uint32, bool) {
		for base, data := range rodataBytesByVram {
			if vram < base || vram+4 > base+uint32(len(data)) {
				continue
			}
			off := vram - base
			return wordAt(data[off : off+4]), true
		}
		return 0, false
	}

	var filesByName map[string]*fileAccumulator
	var order []string

	runPass := func() {
		// Only the last pass's results are rendered.
		filesByName = make(map[string]*fileAccumulator)
		order = nil
		for _, sp := range splits {
			bytesIn := rom.slice(sp.Row.Offset, sp.Size)
			acc, ok := filesByName[sp.Row.Filename]
			if !ok {
				acc = &fileAccumulator{}
				filesByName[sp.Row.Filename] = acc
				order = append(order, sp.Row.Filename)
			}

			switch sp.Row.Section {
			case symbol.SectionText:
				ts := &section.TextSection{
					VromStart: sp.Row.Offset, VramStart: sp.Row.Vram,
					Bytes: bytesIn, Endian: endian, Filename: sp.Row.Filename,
					OverlayCategory: seg.Category,
				}
				syms := ts.Analyze(ctx, seg, rodataWordAt)
				acc.text = append(acc.text, textChunk{sp, syms})
			case symbol.SectionRodata:
				rs := &section.RodataSection{
					VromStart: sp.Row.Offset, VramStart: sp.Row.Vram,
					Bytes: bytesIn, Endian: endian, Filename: sp.Row.Filename,
					OverlayCategory: seg.Category,
				}
				thisRef := func(vram uint32) symbol.Ref {
					return symbol.Ref{Segment: symbol.SegmentKey{Category: seg.Category}, Vram: vram}
				}
				words, syms := rs.Analyze(ctx, seg, thisRef)
				rodataBytesByVram[sp.Row.Vram] = bytesIn
				acc.rodata = append(acc.rodata, dataChunk{sp, words, syms})
			case symbol.SectionData:
				ds := &section.DataSection{
					VromStart: sp.Row.Offset, VramStart: sp.Row.Vram,
					Bytes: bytesIn, Endian: endian, Filename: sp.Row.Filename,
					OverlayCategory: seg.Category,
				}
				words, syms := ds.Analyze(ctx, seg)
				acc.data = append(acc.data, dataChunk{sp, words, syms})
			case symbol.SectionBss:
				bs := &section.BssSection{
					VramStart: sp.Row.Vram, TotalSize: sp.Size,
					Filename: sp.Row.Filename, OverlayCategory: seg.Category,
				}
				acc.bss = append(acc.bss, bs.Analyze(seg)...)
			}
		}
	}

	// First pass discovers symbols; the second lets jump tables whose
	// rodata hadn't been scanned yet on first sight resolve their entries.
	runPass()
	runPass()

	var files []File
	for _, name := range order {
		files = append(files, File{Filename: name, Assembly: renderFile(cfg, ctx, filesByName[name])})
	}
	return files, nil
}

type textChunk struct {
	split Split
	syms  []*symbol.ContextSymbol
}

type dataChunk struct {
	split Split
	words []section.DataWord
	syms  []*symbol.ContextSymbol
}

type fileAccumulator struct {
	text   []textChunk
	rodata []dataChunk
	data   []dataChunk
	bss    []*section.BssSymbol
}

func renderFile(cfg config.Config, ctx *context.Context, acc *fileAccumulator) string {
	var out bytes.Buffer

	for _, chunk := range acc.text {
		for _, sym := range chunk.syms {
			out.WriteString(emit.RenderFunctionLabel(cfg, sym))
		}
	}
	for _, chunk := range acc.data {
		renderDataChunk(&out, cfg, ctx, chunk, false)
	}
	for _, chunk := range acc.rodata {
		renderDataChunk(&out, cfg, ctx, chunk, true)
	}
	for _, bss := range acc.bss {
		out.WriteString(emit.RenderBss(cfg, bss))
	}

	return out.String()
}

func renderDataChunk(out *bytes.Buffer, cfg config.Config, ctx *context.Context, chunk dataChunk, isRodata bool) {
	wordsBySymbol := make(map[uint32][]section.DataWord)
	for _, w := range chunk.words {
		sym := symbolOwning(chunk.syms, w.Vram)
		if sym == nil {
			continue
		}
		wordsBySymbol[sym.Vram] = append(wordsBySymbol[sym.Vram], w)
	}

	for _, sym := range chunk.syms {
		words := wordsBySymbol[sym.Vram]
		isRdata := isRodata && section.IsRdata(sym, string(cfg.Compiler))
		out.WriteString(emit.RenderDataSymbol(cfg, ctx, sym, words, isRdata))
	}
}

func symbolOwning(syms []*symbol.ContextSymbol, vram uint32) *symbol.ContextSymbol {
	var best *symbol.ContextSymbol
	for _, sym := range syms {
		if sym.Vram <= vram && (best == nil || sym.Vram > best.Vram) {
			best = sym
		}
	}
	return best
}

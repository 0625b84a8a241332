package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
)

// csvColumns is the documented column order for a "symbol" row, following
// the header "category,<columns>" format from spec.md §6.
var csvColumns = []string{
	"vram", "vrom", "name", "type", "size", "section",
	"isDefined", "isUserDeclared", "isAutogenerated",
	"isGotLocal", "isGotGlobal", "isElfNotype", "unknownSegment", "overlayCategory",
}

// FileWriter persists one named file; cmd/ supplies os.WriteFile (or an
// in-memory sink in tests).
type FileWriter func(name string, contents []byte) error

// FileReader loads one named file's contents.
type FileReader func(name string) ([]byte, error)

// SaveContext implements spec.md §6's context save format and per-segment
// file naming scheme: a main context file for the global segment, a
// "<stem>_unksegment<suffix>" file, and "<stem>_<category>_<vromHex6><suffix>"
// per overlay segment (SPEC_FULL.md supplemented feature 5).
func SaveContext(ctx *context.Context, stem, suffix string, write FileWriter) error {
	if err := write(stem+suffix, serializeSegment(ctx.GlobalSegment())); err != nil {
		return fmt.Errorf("loader: saving global segment: %w", err)
	}
	if err := write(stem+"_unksegment"+suffix, serializeSegment(ctx.UnknownSegment())); err != nil {
		return fmt.Errorf("loader: saving unknown segment: %w", err)
	}

	for _, category := range ctx.OverlayCategories() {
		for vromStart, seg := range ctx.OverlaySegmentsInCategory(category) {
			name := fmt.Sprintf("%s_%s_%06X%s", stem, category, vromStart, suffix)
			if err := write(name, serializeSegment(seg)); err != nil {
				return fmt.Errorf("loader: saving overlay segment %s: %w", name, err)
			}
		}
	}
	return nil
}

func serializeSegment(seg *segment.SymbolsSegment) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"category"}, csvColumns...)
	_ = w.Write(header)

	for _, sym := range seg.AllSymbols() {
		_ = w.Write(append([]string{"symbol"}, symbolRow(sym)...))
	}
	for _, sym := range seg.AllConstants() {
		_ = w.Write([]string{"constants", fmt.Sprintf("0x%X", sym.Vram), sym.Name})
	}
	for _, ptr := range seg.PendingPointers() {
		_ = w.Write([]string{"new_pointer_in_data", fmt.Sprintf("0x%08X", ptr)})
	}

	w.Flush()
	return buf.Bytes()
}

func symbolRow(sym *symbol.ContextSymbol) []string {
	vrom := ""
	if sym.Vrom != nil {
		vrom = fmt.Sprintf("0x%X", *sym.Vrom)
	}
	size := ""
	if sym.Size != nil {
		size = fmt.Sprintf("0x%X", *sym.Size)
	}
	return []string{
		fmt.Sprintf("0x%08X", sym.Vram),
		vrom,
		sym.Name,
		sym.Type.String(),
		size,
		sym.Section.String(),
		strconv.FormatBool(sym.IsDefined),
		strconv.FormatBool(sym.IsUserDeclared),
		strconv.FormatBool(sym.IsAutogenerated),
		strconv.FormatBool(sym.IsGotLocal),
		strconv.FormatBool(sym.IsGotGlobal),
		strconv.FormatBool(sym.IsElfNotype),
		strconv.FormatBool(sym.UnknownSegment),
		sym.OverlayCategory,
	}
}

// LoadContext reparses a file previously written by SaveContext back into
// seg, reconstructing every persisted field (spec.md §8 property 6: save
// then reload yields an identical symbol set on all persisted fields).
func LoadContext(r io.Reader, seg *segment.SymbolsSegment) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("loader: reading context file: %w", err)
	}

	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) == 0 {
			continue
		}

		switch record[0] {
		case "symbol":
			if err := loadSymbolRow(seg, record[1:]); err != nil {
				return err
			}
		case "constants":
			if len(record) < 3 {
				continue
			}
			value, err := parseHex32(record[1])
			if err != nil {
				return err
			}
			seg.AddConstant(value, record[2])
		case "new_pointer_in_data":
			if len(record) < 2 {
				continue
			}
			ptr, err := parseHex32(record[1])
			if err != nil {
				return err
			}
			seg.AddPointerInDataReference(ptr, 0)
		}
	}
	return nil
}

func loadSymbolRow(seg *segment.SymbolsSegment, fields []string) error {
	if len(fields) < len(csvColumns) {
		return fmt.Errorf("loader: symbol row has %d fields, want %d", len(fields), len(csvColumns))
	}

	vram, err := parseHex32(fields[0])
	if err != nil {
		return err
	}

	sym := seg.AddSymbol(vram, parseSectionName(fields[5]), false, nil)

	if vromField := strings.TrimSpace(fields[1]); vromField != "" {
		vrom, err := parseHex32(vromField)
		if err != nil {
			return err
		}
		sym.Vrom = &vrom
	}

	sym.Name = fields[2]
	sym.Type = parseTypeName(fields[3])

	if sizeField := strings.TrimSpace(fields[4]); sizeField != "" {
		size, err := parseHex32(sizeField)
		if err != nil {
			return err
		}
		sym.Size = &size
	}

	sym.IsDefined = fields[6] == "true"
	sym.IsUserDeclared = fields[7] == "true"
	sym.IsAutogenerated = fields[8] == "true"
	sym.IsGotLocal = fields[9] == "true"
	sym.IsGotGlobal = fields[10] == "true"
	sym.IsElfNotype = fields[11] == "true"
	sym.UnknownSegment = fields[12] == "true"
	sym.OverlayCategory = fields[13]

	return nil
}

var typeNames = map[string]symbol.Type{
	"Unknown": symbol.Unknown, "Function": symbol.Function, "BranchLabel": symbol.BranchLabel,
	"JumpTable": symbol.JumpTable, "JumpTableLabel": symbol.JumpTableLabel, "HardwareReg": symbol.HardwareReg,
	"Constant": symbol.Constant, "Byte": symbol.Byte, "Short": symbol.Short, "Word": symbol.Word,
	"Float": symbol.Float, "Double": symbol.Double, "String": symbol.String, "CString": symbol.CString,
	"Notype": symbol.Notype, "UserString": symbol.UserString,
}

func parseTypeName(name string) symbol.Type {
	return typeNames[name]
}

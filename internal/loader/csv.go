// Package loader implements the external CSV/AST collaborators spec.md §1
// treats as out-of-core: splits, functions, variables and constants CSV
// readers, plus the context save/reload format (spec.md §6). It is kept
// here since SPEC_FULL covers the whole repository, but never called from
// pkg/disasm itself — only from cmd/.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/segment"
	"github.com/spimgo/spimgo/pkg/disasm/symbol"
	"github.com/spimgo/spimgo/pkg/utils"
)

// ErrMalformedHex is the sentinel wrapped by every hex-field parse failure
// in this package (spec.md §7's "invalid input" class).
var ErrMalformedHex = errors.New("loader: malformed hex field")

// SplitRow is one row of the splits CSV: offset,vram,filename,section.
type SplitRow struct {
	Offset   uint32
	Vram     uint32
	Filename string
	Section  symbol.Section
}

func parseHex32(field string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(field), "0x")
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, utils.MakeError(ErrMalformedHex, "%q: %v", field, err)
	}
	return uint32(v), nil
}

func parseSectionName(name string) symbol.Section {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text":
		return symbol.SectionText
	case "data":
		return symbol.SectionData
	case "rodata", ".rodata":
		return symbol.SectionRodata
	case "bss":
		return symbol.SectionBss
	default:
		return symbol.SectionUnknown
	}
}

// ReadSplitsCSV parses the file-splits CSV (spec.md §6). Malformed rows are
// reported via the returned error slice and skipped; the file is never
// rejected wholesale over one bad row (spec.md §7 "invalid input").
func ReadSplitsCSV(r io.Reader) ([]SplitRow, []error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, []error{fmt.Errorf("loader: reading splits csv: %w", err)}
	}

	var rows []SplitRow
	var errs []error
	for i, record := range records {
		if i == 0 && looksLikeHeader(record) {
			continue
		}
		if len(record) < 4 {
			errs = append(errs, fmt.Errorf("loader: splits csv row %d: expected 4 columns, got %d", i, len(record)))
			continue
		}
		offset, err := parseHex32(record[0])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vram, err := parseHex32(record[1])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, SplitRow{
			Offset:   offset,
			Vram:     vram,
			Filename: strings.TrimSpace(record[2]),
			Section:  parseSectionName(record[3]),
		})
	}
	return rows, errs
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := parseHex32(record[0])
	return err != nil
}

// ReadFunctionsCSV applies each "vramHex,name" row to seg via AddFunction,
// marking every symbol user-declared. A row with vram == "-" is skipped
// (spec.md §6).
func ReadFunctionsCSV(r io.Reader, seg *segment.SymbolsSegment) []error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return []error{fmt.Errorf("loader: reading functions csv: %w", err)}
	}

	var errs []error
	for i, record := range records {
		if len(record) < 2 {
			errs = append(errs, fmt.Errorf("loader: functions csv row %d: expected 2 columns", i))
			continue
		}
		vramField := strings.TrimSpace(record[0])
		if vramField == "-" {
			continue
		}
		vram, err := parseHex32(vramField)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		sym := seg.AddFunction(vram, false, nil)
		sym.Name = strings.TrimSpace(record[1])
		sym.IsUserDeclared = true
		sym.IsDefined = true
	}
	return errs
}

// ReadOverlaysCSV applies each "category,vromStartHex,vromEndHex,
// vramStartHex,vramEndHex" row to ctx via TryAddOverlaySegment. A malformed
// range is reported, not fatal, matching the rest of this package's
// invalid-row handling (spec.md §7).
func ReadOverlaysCSV(r io.Reader, ctx *context.Context) []error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return []error{fmt.Errorf("loader: reading overlays csv: %w", err)}
	}

	var errs []error
	for i, record := range records {
		if len(record) < 5 {
			errs = append(errs, fmt.Errorf("loader: overlays csv row %d: expected 5 columns", i))
			continue
		}

		category := strings.TrimSpace(record[0])
		vromStart, err := parseHex32(record[1])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vromEnd, err := parseHex32(record[2])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vramStart, err := parseHex32(record[3])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vramEnd, err := parseHex32(record[4])
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if _, err := ctx.TryAddOverlaySegment(category, vromStart, vromEnd, vramStart, vramEnd); err != nil {
			errs = append(errs, fmt.Errorf("loader: overlays csv row %d: %w", i, err))
		}
	}
	return errs
}

// ReadConstantsCSV applies each "valueHex,name" row via AddConstant.
func ReadConstantsCSV(r io.Reader, seg *segment.SymbolsSegment) []error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return []error{fmt.Errorf("loader: reading constants csv: %w", err)}
	}

	var errs []error
	for i, record := range records {
		if len(record) < 2 {
			errs = append(errs, fmt.Errorf("loader: constants csv row %d: expected 2 columns", i))
			continue
		}
		value, err := parseHex32(record[0])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		seg.AddConstant(value, strings.TrimSpace(record[1]))
	}
	return errs
}

// ReadGotCSV parses a "kind,addressHex" GOT description (kind is "plt",
// "local" or "global") and applies it via Context.InitGOTTable. Exactly one
// "plt" row is expected; it is an error if none is found (spec.md §4.3,
// §4.8 GOT wiring).
func ReadGotCSV(r io.Reader, ctx *context.Context) []error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return []error{fmt.Errorf("loader: reading got csv: %w", err)}
	}

	var errs []error
	var pltGot uint32
	var havePltGot bool
	var locals, globals []uint32
	for i, record := range records {
		if len(record) < 2 {
			errs = append(errs, fmt.Errorf("loader: got csv row %d: expected 2 columns", i))
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(record[0]))
		addr, err := parseHex32(record[1])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch kind {
		case "plt":
			pltGot = addr
			havePltGot = true
		case "local":
			locals = append(locals, addr)
		case "global":
			globals = append(globals, addr)
		default:
			errs = append(errs, fmt.Errorf("loader: got csv row %d: unknown kind %q", i, kind))
		}
	}

	if !havePltGot {
		errs = append(errs, fmt.Errorf("loader: got csv: missing required %q row", "plt"))
		return errs
	}

	ctx.InitGOTTable(pltGot, locals, globals)
	return errs
}

// ReadVariablesCSV applies each "vramHex,name,type,sizeHex" row, dispatching
// to the special-type adder (function/branchlabel/jumptable/
// jumptablelabel/hardwarereg), a value-type tag (float/double/string/
// cstring/byte/short/word, spec.md §4.5 point 3's rodata typing) or plain
// AddSymbol with a user type string (spec.md §6).
func ReadVariablesCSV(r io.Reader, seg *segment.SymbolsSegment) []error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return []error{fmt.Errorf("loader: reading variables csv: %w", err)}
	}

	var errs []error
	for i, record := range records {
		if len(record) < 4 {
			errs = append(errs, fmt.Errorf("loader: variables csv row %d: expected 4 columns", i))
			continue
		}
		vramField := strings.TrimSpace(record[0])
		if vramField == "-" {
			continue
		}
		vram, err := parseHex32(vramField)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		name := strings.TrimSpace(record[1])
		varType := strings.ToLower(strings.TrimSpace(record[2]))
		sizeField := strings.TrimSpace(record[3])

		var sym *symbol.ContextSymbol
		switch varType {
		case "function":
			sym = seg.AddFunction(vram, false, nil)
		case "branchlabel":
			sym = seg.AddBranchLabel(vram, false, nil)
		case "jumptable":
			sym = seg.AddJumpTable(vram, false, nil)
		case "jumptablelabel":
			sym = seg.AddJumpTableLabel(vram, false, nil)
		case "hardwarereg":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.HardwareReg
		case "float":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.Float
		case "double":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.Double
		case "string":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.String
		case "cstring":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.CString
		case "byte":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.Byte
		case "short":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.Short
		case "word":
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			sym.Type = symbol.Word
		default:
			sym = seg.AddSymbol(vram, symbol.SectionData, false, nil)
			if varType != "" {
				sym.UserType = varType
			}
		}

		sym.Name = name
		sym.IsUserDeclared = true
		sym.IsDefined = true

		if sizeField != "" && sizeField != "-" {
			size, err := parseHex32(sizeField)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			sym.Size = &size
		}
	}
	return errs
}

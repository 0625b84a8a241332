package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spimgo/spimgo/internal/config"
	"github.com/spimgo/spimgo/internal/highlight"
	"github.com/spimgo/spimgo/internal/loader"
	"github.com/spimgo/spimgo/internal/logging"
	"github.com/spimgo/spimgo/pkg/disasm/context"
	"github.com/spimgo/spimgo/pkg/disasm/pipeline"
	"github.com/spimgo/spimgo/pkg/utils"
)

var (
	disasmSplitsPath    string
	disasmRomPath       string
	disasmOutDir        string
	disasmCompiler      string
	disasmEndian        string
	disasmPIC           bool
	disasmVerbose       bool
	disasmSaveCtx       string
	disasmColor         bool
	disasmFunctionsPath string
	disasmVariablesPath string
	disasmConstantsPath string
	disasmOverlaysPath  string
	disasmGotPath       string
	disasmLibultraSyms  bool
	disasmHardwareRegs  bool
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <rom>",
	Short: "Disassemble a ROM into per-file GAS assembly using a splits CSV",
	Long: `disasm loads a splits CSV describing the file layout of a ROM,
runs the two-pass symbol analysis over every split, and writes one .s file
per split filename to the output directory.

Examples:
  spimgo disasm baserom.z64 --splits splits.csv --out asm/
  spimgo disasm baserom.z64 --splits splits.csv --compiler GCC --pic`,
	Args: cobra.ExactArgs(1),
	Run:  runDisasm,
}

func init() {
	RootCmd.AddCommand(disasmCmd)

	disasmCmd.Flags().StringVar(&disasmSplitsPath, "splits", "", "path to the splits CSV (required)")
	disasmCmd.Flags().StringVarP(&disasmOutDir, "out", "o", "asm", "output directory for rendered .s files")
	disasmCmd.Flags().StringVar(&disasmCompiler, "compiler", "IDO", "target compiler quirks: IDO, GCC, SN64, PSYQ")
	disasmCmd.Flags().StringVar(&disasmEndian, "endian", "big", "ROM byte order: big, little")
	disasmCmd.Flags().BoolVar(&disasmPIC, "pic", false, "set Config.PIC; jump tables render as $gp-relative only when a $gp value is also configured, which this command does not set")
	disasmCmd.Flags().BoolVarP(&disasmVerbose, "verbose", "v", false, "print verbose output")
	disasmCmd.Flags().StringVar(&disasmSaveCtx, "save-context", "", "stem to save the resulting symbol context under")
	disasmCmd.Flags().BoolVar(&disasmColor, "color", false, "print a syntax-highlighted listing to stdout instead of writing files")
	disasmCmd.Flags().StringVar(&disasmFunctionsPath, "functions", "", "functions CSV path, loaded into the context before section analysis")
	disasmCmd.Flags().StringVar(&disasmVariablesPath, "variables", "", "variables CSV path, loaded into the context before section analysis")
	disasmCmd.Flags().StringVar(&disasmConstantsPath, "constants", "", "constants CSV path, loaded into the context before section analysis")
	disasmCmd.Flags().StringVar(&disasmOverlaysPath, "overlays", "", "overlays CSV path (category,vromStart,vromEnd,vramStart,vramEnd)")
	disasmCmd.Flags().StringVar(&disasmGotPath, "got", "", "GOT description CSV path (kind,addressHex; kind is plt, local or global)")
	disasmCmd.Flags().BoolVar(&disasmLibultraSyms, "libultra-syms", false, "inject the built-in N64 libultra global symbols into the global segment")
	disasmCmd.Flags().BoolVar(&disasmHardwareRegs, "hardware-regs", false, "inject the built-in N64 hardware register symbols into the global segment")

	_ = viper.BindPFlag("compiler", disasmCmd.Flags().Lookup("compiler"))
	_ = viper.BindPFlag("endian", disasmCmd.Flags().Lookup("endian"))
}

func runDisasm(cmd *cobra.Command, args []string) {
	logger := logging.New(disasmVerbose)

	if disasmSplitsPath == "" {
		logger.Error("missing required --splits flag")
		os.Exit(1)
	}

	romPath := args[0]
	rom, err := os.ReadFile(romPath)
	if err != nil {
		logger.Error("reading ROM", "path", romPath, "err", err)
		os.Exit(1)
	}

	splitsFile, err := os.Open(disasmSplitsPath)
	if err != nil {
		logger.Error("opening splits csv", "path", disasmSplitsPath, "err", err)
		os.Exit(1)
	}
	defer splitsFile.Close()

	rows, errs := loader.ReadSplitsCSV(splitsFile)
	for _, e := range errs {
		logger.Warn("skipping malformed split row", "err", e)
	}
	if len(rows) == 0 {
		logger.Error("no usable splits found", "path", disasmSplitsPath)
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.Compiler = config.Compiler(disasmCompiler)
	if disasmEndian == "little" {
		cfg.Endian = config.EndianLittle
	}
	cfg.PIC = disasmPIC
	cfg.Verbose = disasmVerbose
	cfg.Color = disasmColor

	ctx := context.New()
	ctx.FillDefaultBannedSymbols()
	seg := ctx.GlobalSegment()

	// Load user CSV/AST providers into the context before any section
	// analysis runs (spec.md §5 step 1).
	loadCSV(disasmOverlaysPath, func(f *os.File) []error { return loader.ReadOverlaysCSV(f, ctx) })
	loadCSV(disasmFunctionsPath, func(f *os.File) []error { return loader.ReadFunctionsCSV(f, seg) })
	loadCSV(disasmVariablesPath, func(f *os.File) []error { return loader.ReadVariablesCSV(f, seg) })
	loadCSV(disasmConstantsPath, func(f *os.File) []error { return loader.ReadConstantsCSV(f, seg) })
	loadCSV(disasmGotPath, func(f *os.File) []error { return loader.ReadGotCSV(f, ctx) })

	if disasmLibultraSyms {
		seg.FillLibultraSyms()
	}
	if disasmHardwareRegs {
		seg.FillHardwareRegs(true)
	}

	splits := splitsFromRows(rows)
	vramLo, vramHi := splitsVramRange(rows)
	ctx.ChangeGlobalSegmentRanges(nil, nil, vramLo, vramHi)

	files, err := pipeline.Run(cfg, ctx, seg, pipeline.Rom(rom), splits)
	if err != nil {
		logger.Error("running pipeline", "err", err)
		os.Exit(1)
	}

	if disasmColor {
		for _, f := range files {
			highlight.PrintAsm(f.Assembly)
		}
		logger.Info("disassembly complete", "files", len(files))
	} else {
		if err := os.MkdirAll(disasmOutDir, 0o755); err != nil {
			logger.Error("creating output directory", "dir", disasmOutDir, "err", err)
			os.Exit(1)
		}

		for _, f := range files {
			outPath := disasmOutDir + "/" + f.Filename
			if err := os.WriteFile(outPath, []byte(f.Assembly), 0o644); err != nil {
				logger.Error("writing output file", "path", outPath, "err", err)
				os.Exit(1)
			}
		}
		logger.Info("disassembly complete", "files", len(files))
	}

	if disasmSaveCtx != "" {
		write := func(name string, contents []byte) error {
			return os.WriteFile(name, contents, 0o644)
		}
		if err := loader.SaveContext(ctx, disasmSaveCtx, ".csv", write); err != nil {
			logger.Error("saving context", "err", err)
			os.Exit(1)
		}
	}
}

func splitsFromRows(rows []loader.SplitRow) []pipeline.Split {
	splits := make([]pipeline.Split, 0, len(rows))
	for i, row := range rows {
		var size uint32
		if i+1 < len(rows) {
			size = rows[i+1].Offset - row.Offset
		} else {
			size = 0x10000
		}
		splits = append(splits, pipeline.Split{Row: row, Size: size})
	}
	return splits
}

func splitsVramRange(rows []loader.SplitRow) (uint32, uint32) {
	vrams := utils.Map(rows, func(r loader.SplitRow) uint32 { return r.Vram })
	return utils.Min(vrams), utils.Max(vrams) + 0x10000
}

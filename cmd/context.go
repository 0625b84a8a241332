package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spimgo/spimgo/internal/loader"
	"github.com/spimgo/spimgo/pkg/disasm/context"
)

var (
	ctxFunctionsPath string
	ctxVariablesPath string
	ctxConstantsPath string
	ctxOverlaysPath  string
)

// contextCmd groups subcommands operating on a standalone symbol context,
// independent of a full disasm run.
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Inspect or build a symbol context from CSV input",
}

var contextDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Load functions/variables/constants CSVs and print a summary",
	Run:   runContextDump,
}

func init() {
	RootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextDumpCmd)

	contextDumpCmd.Flags().StringVar(&ctxFunctionsPath, "functions", "", "functions CSV path")
	contextDumpCmd.Flags().StringVar(&ctxVariablesPath, "variables", "", "variables CSV path")
	contextDumpCmd.Flags().StringVar(&ctxConstantsPath, "constants", "", "constants CSV path")
	contextDumpCmd.Flags().StringVar(&ctxOverlaysPath, "overlays", "", "overlays CSV path (category,vromStart,vromEnd,vramStart,vramEnd)")
}

func runContextDump(cmd *cobra.Command, args []string) {
	ctx := context.New()
	ctx.FillDefaultBannedSymbols()
	seg := ctx.GlobalSegment()

	loadCSV(ctxOverlaysPath, func(f *os.File) []error { return loader.ReadOverlaysCSV(f, ctx) })
	loadCSV(ctxFunctionsPath, func(f *os.File) []error { return loader.ReadFunctionsCSV(f, seg) })
	loadCSV(ctxVariablesPath, func(f *os.File) []error { return loader.ReadVariablesCSV(f, seg) })
	loadCSV(ctxConstantsPath, func(f *os.File) []error { return loader.ReadConstantsCSV(f, seg) })

	fmt.Println(ctx.String())
	for _, sym := range seg.AllSymbols() {
		fmt.Printf("0x%08X %-12s %s\n", sym.Vram, sym.Type.String(), sym.DisplayName())
	}
}

func loadCSV(path string, read func(*os.File) []error) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening %s: %v\n", path, err)
		os.Exit(1)
	}
	defer f.Close()

	for _, e := range read(f) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}
}

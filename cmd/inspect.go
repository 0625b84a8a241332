package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spimgo/spimgo/internal/loader"
	"github.com/spimgo/spimgo/internal/tui"
	"github.com/spimgo/spimgo/pkg/disasm/context"
)

var (
	inspectFunctionsPath string
	inspectVariablesPath string
	inspectConstantsPath string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse a symbol context interactively",
	Long: `inspect loads the same functions/variables/constants CSVs as
"context dump" and opens a terminal UI for browsing segments and symbols.`,
	Run: runInspect,
}

func init() {
	RootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectFunctionsPath, "functions", "", "functions CSV path")
	inspectCmd.Flags().StringVar(&inspectVariablesPath, "variables", "", "variables CSV path")
	inspectCmd.Flags().StringVar(&inspectConstantsPath, "constants", "", "constants CSV path")
}

func runInspect(cmd *cobra.Command, args []string) {
	ctx := context.New()
	ctx.FillDefaultBannedSymbols()
	seg := ctx.GlobalSegment()

	loadCSV(inspectFunctionsPath, func(f *os.File) []error { return loader.ReadFunctionsCSV(f, seg) })
	loadCSV(inspectVariablesPath, func(f *os.File) []error { return loader.ReadVariablesCSV(f, seg) })
	loadCSV(inspectConstantsPath, func(f *os.File) []error { return loader.ReadConstantsCSV(f, seg) })

	if err := tui.New(ctx).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

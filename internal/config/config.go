// Package config defines the immutable Config struct threaded explicitly
// through every analyzer, segment and emitter call, replacing the
// process-wide GlobalConfig object the original tool used (spec.md §9
// design note "Global mutable configuration").
package config

// Compiler selects compiler-specific emission quirks (spec.md §6).
type Compiler string

const (
	CompilerIDO  Compiler = "IDO"
	CompilerGCC  Compiler = "GCC"
	CompilerSN64 Compiler = "SN64"
	CompilerPSYQ Compiler = "PSYQ"
)

// Endian selects the byte order of the input binary.
type Endian string

const (
	EndianBig    Endian = "big"
	EndianLittle Endian = "little"
)

// Config bundles every flag in spec.md §6's "Configuration flags" list.
// It is built once at the CLI boundary (cmd/) from viper-bound flags and
// passed by value or pointer-to-const through the rest of the pipeline;
// there is no package-level singleton.
type Config struct {
	Endian   Endian
	Compiler Compiler

	// ProduceSymbolsPlusOffset is carried for the PRODUCE_SYMBOLS_PLUS_OFFSET
	// flag but is not read anywhere: SymbolsSegment.GetSymbol's
	// predecessor-with-addend resolution depends only on its tryPlusOffset
	// argument.
	ProduceSymbolsPlusOffset bool

	// PIC and GPValue together enable $gp-relative jump table words
	// (SPEC_FULL.md supplemented feature 3).
	PIC     bool
	GPValue *uint32

	ASMComment                    bool
	ASMDataSymAsLabel             bool
	ASMReferenceeSymbols          bool
	AutogeneratedNamesBasedOnType bool

	TrustUserFunctions bool

	RemovePointers  bool
	IgnoreBranches  bool
	IgnoreWordList  []byte

	WriteBinary bool
	LineEnds    string

	// StringEncoding names the Go encoding package codec used to decode
	// String symbols; "euc-jp" matches the original's default.
	StringEncoding string

	Verbose bool
	Color   bool
}

// Default returns the configuration the CLI falls back to when a flag
// isn't set, matching the original's GlobalConfig defaults.
func Default() Config {
	return Config{
		Endian:                        EndianBig,
		Compiler:                      CompilerIDO,
		ProduceSymbolsPlusOffset:      false,
		ASMComment:                    true,
		ASMDataSymAsLabel:             true,
		ASMReferenceeSymbols:          true,
		AutogeneratedNamesBasedOnType: false,
		TrustUserFunctions:            false,
		RemovePointers:                false,
		IgnoreBranches:                false,
		WriteBinary:                   false,
		LineEnds:                      "\n",
		StringEncoding:                "euc-jp",
	}
}

// IgnoresWord reports whether a word's high byte is in the configured
// ignore-word-list while RemovePointers is set (SPEC_FULL.md supplemented
// feature 6). No analyzer calls it and the CLI has no flag that sets
// RemovePointers or IgnoreWordList.
func (c Config) IgnoresWord(word uint32) bool {
	if !c.RemovePointers {
		return false
	}
	highByte := byte(word >> 24)
	for _, b := range c.IgnoreWordList {
		if b == highByte {
			return true
		}
	}
	return false
}

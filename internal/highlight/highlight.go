// Package highlight implements a regex-based token highlighter for the
// GAS-flavored MIPS assembly emitted by pkg/disasm/emit, in the same style
// as the teacher's C/C++ source highlighter: find tokens with independent
// regexes, resolve overlaps by first-match-wins, then splice color escapes
// into the original string.
package highlight

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"
)

var (
	directiveColor = color.New(color.FgMagenta)
	registerColor  = color.New(color.FgCyan)
	labelColor     = color.New(color.FgYellow, color.Bold)
	stringColor    = color.New(color.FgGreen)
	numberColor    = color.New(color.FgBlue)
	commentColor   = color.New(color.FgHiBlack)
	sectionColor   = color.New(color.FgRed)
)

// gasDirectives is the set of GAS/MIPS assembler directives emitted by
// pkg/disasm/emit that get their own color, mirroring cKeywords in the
// teacher's highlighter.
var gasDirectives = map[string]bool{
	".word": true, ".float": true, ".double": true, ".byte": true,
	".short": true, ".ascii": true, ".asciz": true, ".space": true,
	".align": true, ".balign": true, ".globl": true, ".gpword": true,
	".section": true, ".text": true, ".data": true, ".rdata": true,
	".bss": true, ".fill": true, ".size": true, ".type": true,
}

// gasLabelMacros are the label-emitting pseudo-directives used by the
// emitter for function/data/jump-table symbols.
var gasLabelMacros = map[string]bool{
	"glabel": true, "dlabel": true, "jlabel": true, "jlabellabel": true,
}

var mipsRegisters = map[string]bool{
	"$zero": true, "$at": true, "$v0": true, "$v1": true,
	"$a0": true, "$a1": true, "$a2": true, "$a3": true,
	"$t0": true, "$t1": true, "$t2": true, "$t3": true, "$t4": true,
	"$t5": true, "$t6": true, "$t7": true, "$t8": true, "$t9": true,
	"$s0": true, "$s1": true, "$s2": true, "$s3": true, "$s4": true,
	"$s5": true, "$s6": true, "$s7": true,
	"$k0": true, "$k1": true, "$gp": true, "$sp": true, "$fp": true, "$ra": true,
}

var (
	stringPattern       = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	lineCommentPattern  = regexp.MustCompile(`#[^\n]*`)
	blockCommentPattern = regexp.MustCompile(`/\*.*?\*/`)
	numberPattern       = regexp.MustCompile(`\b0[xX][0-9a-fA-F]+\b|\b\d+\.\d+\b|\b\d+\b`)
	registerPattern     = regexp.MustCompile(`\$[a-z0-9]+`)
	directivePattern    = regexp.MustCompile(`\.[a-zA-Z]+\b`)
	labelPattern        = regexp.MustCompile(`\b[A-Za-z_.][A-Za-z0-9_.]*:`)
	identifierPattern   = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*\b`)
)

type token struct {
	text  string
	color *color.Color
	start int
	end   int
}

// HighlightAsm scans GAS-MIPS assembly text and returns it with ANSI color
// escapes spliced in around directives, registers, labels, strings, numbers
// and comments. Unrecognized text passes through unmodified.
func HighlightAsm(source string) string {
	var tokens []token

	for _, m := range blockCommentPattern.FindAllStringIndex(source, -1) {
		tokens = append(tokens, token{source[m[0]:m[1]], commentColor, m[0], m[1]})
	}
	for _, m := range lineCommentPattern.FindAllStringIndex(source, -1) {
		tokens = append(tokens, token{source[m[0]:m[1]], commentColor, m[0], m[1]})
	}
	for _, m := range stringPattern.FindAllStringIndex(source, -1) {
		if overlapsAny(tokens, m[0], m[1]) {
			continue
		}
		tokens = append(tokens, token{source[m[0]:m[1]], stringColor, m[0], m[1]})
	}
	for _, m := range labelPattern.FindAllStringIndex(source, -1) {
		if overlapsAny(tokens, m[0], m[1]) {
			continue
		}
		tokens = append(tokens, token{source[m[0]:m[1]], labelColor, m[0], m[1]})
	}
	for _, m := range directivePattern.FindAllStringIndex(source, -1) {
		if overlapsAny(tokens, m[0], m[1]) {
			continue
		}
		word := source[m[0]:m[1]]
		if !gasDirectives[word] {
			continue
		}
		tokens = append(tokens, token{word, directiveColor, m[0], m[1]})
	}
	for _, m := range registerPattern.FindAllStringIndex(source, -1) {
		if overlapsAny(tokens, m[0], m[1]) {
			continue
		}
		word := source[m[0]:m[1]]
		if !mipsRegisters[word] {
			continue
		}
		tokens = append(tokens, token{word, registerColor, m[0], m[1]})
	}
	for _, m := range numberPattern.FindAllStringIndex(source, -1) {
		if overlapsAny(tokens, m[0], m[1]) {
			continue
		}
		tokens = append(tokens, token{source[m[0]:m[1]], numberColor, m[0], m[1]})
	}
	for _, m := range identifierPattern.FindAllStringIndex(source, -1) {
		if overlapsAny(tokens, m[0], m[1]) {
			continue
		}
		word := source[m[0]:m[1]]
		if gasLabelMacros[word] {
			tokens = append(tokens, token{word, sectionColor, m[0], m[1]})
		}
	}

	sortTokens(tokens)
	return buildHighlightedString(source, tokens)
}

func overlapsAny(tokens []token, start, end int) bool {
	for _, t := range tokens {
		if start < t.end && end > t.start {
			return true
		}
	}
	return false
}

func sortTokens(tokens []token) {
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].start < tokens[j].start
	})
}

func buildHighlightedString(source string, tokens []token) string {
	var b strings.Builder
	cursor := 0

	for _, t := range tokens {
		if t.start < cursor {
			continue
		}
		b.WriteString(source[cursor:t.start])
		b.WriteString(t.color.Sprint(t.text))
		cursor = t.end
	}
	b.WriteString(source[cursor:])

	return b.String()
}

// PrintAsm writes highlighted GAS-MIPS assembly to stdout, honoring
// fatih/color's global NoColor setting (disabled automatically when stdout
// isn't a terminal).
func PrintAsm(source string) {
	fmt.Println(HighlightAsm(source))
}

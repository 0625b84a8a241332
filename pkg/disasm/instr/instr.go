// Package instr models the per-instruction MIPS decoder boundary. spec.md
// §1 treats the decoder as an opaque external collaborator exposing
// opcode, operand registers, immediates, branch target and jump target; this
// package is that interface plus a reference MIPS III/IV decoder complete
// enough to drive the text section analyzer and its tests.
package instr

import "github.com/spimgo/spimgo/pkg/utils"

// Instruction is the decoder boundary the text analyzer consumes.
type Instruction interface {
	Vram() uint32
	RawWord() uint32

	IsJump() bool         // j
	IsJumpAndLink() bool  // jal
	IsJumpRegister() bool // jr
	IsBranch() bool       // any conditional branch, including likely/FP variants
	IsLui() bool
	IsAddiu() bool
	IsLoad() bool  // lw/lh/lb/lhu/lbu/ld
	IsStore() bool // sw/sh/sb/sd

	// Rs/Rt/Rd are the raw 5-bit register fields; callers that don't need
	// a field for a given opcode may ignore it.
	Rs() int
	Rt() int
	Rd() int

	// Immediate sign-extends the 16-bit immediate field.
	Immediate() int32

	// JumpTarget reconstructs a j/jal absolute target from the 26-bit
	// field and this instruction's own vram (the top 4 bits come from the
	// delay slot's vram, per MIPS's pseudo-direct addressing).
	JumpTarget() (uint32, bool)

	// BranchTarget reconstructs a branch's absolute target from the
	// sign-extended offset and this instruction's own vram.
	BranchTarget() (uint32, bool)
}

const (
	opSpecial = 0x00
	opRegimm  = 0x01
	opJ       = 0x02
	opJal     = 0x03
	opBeq     = 0x04
	opBne     = 0x05
	opBlez    = 0x06
	opBgtz    = 0x07
	opAddiu   = 0x09
	opLui     = 0x0F
	opCop1    = 0x11
	opBeql    = 0x14
	opBnel    = 0x15
	opBlezl   = 0x16
	opBgtzl   = 0x17
	opLb      = 0x20
	opLh      = 0x21
	opLw      = 0x23
	opLbu     = 0x24
	opLhu     = 0x25
	opLwu     = 0x27
	opSb      = 0x28
	opSh      = 0x29
	opSw      = 0x2B
	opLd      = 0x37
	opSd      = 0x3F

	functJr   = 0x08
	functJalr = 0x09
)

// decoded is the reference implementation of Instruction.
type decoded struct {
	vram uint32
	word uint32
}

// Decode builds an Instruction from a big-endian-normalized 32-bit word
// (callers handle byte-order translation before decoding; the decoder
// itself only ever sees a native uint32).
func Decode(word, vram uint32) Instruction {
	return decoded{vram: vram, word: word}
}

func (d decoded) view() utils.BitView[uint32] {
	w := d.word
	return utils.CreateBitView(&w)
}

func (d decoded) opcode() uint32 { return d.view().Read(26, 6) }
func (d decoded) funct() uint32  { return d.view().Read(0, 6) }
func (d decoded) rt() uint32     { return d.view().Read(16, 5) }

func (d decoded) Vram() uint32   { return d.vram }
func (d decoded) RawWord() uint32 { return d.word }

func (d decoded) Rs() int { return int(d.view().Read(21, 5)) }
func (d decoded) Rt() int { return int(d.view().Read(16, 5)) }
func (d decoded) Rd() int { return int(d.view().Read(11, 5)) }

func (d decoded) Immediate() int32 {
	return int32(int16(uint16(d.view().Read(0, 16))))
}

func (d decoded) IsJump() bool        { return d.opcode() == opJ }
func (d decoded) IsJumpAndLink() bool { return d.opcode() == opJal }

func (d decoded) IsJumpRegister() bool {
	return d.opcode() == opSpecial && d.funct() == functJr
}

func (d decoded) IsBranch() bool {
	switch d.opcode() {
	case opBeq, opBne, opBlez, opBgtz, opBeql, opBnel, opBlezl, opBgtzl:
		return true
	case opRegimm:
		// REGIMM rt 0x00-0x03 and 0x10-0x13 are the bltz/bgez families;
		// 0x08-0x0F are trap-immediate instructions, not branches.
		return d.rt()&0x0C == 0
	case opCop1:
		// BC1F/BC1T and their likely variants are the COP1 instructions whose
		// rs field is the BC selector 0x08; rt picks the variant.
		return d.Rs() == 0x08
	default:
		return false
	}
}

func (d decoded) IsLui() bool   { return d.opcode() == opLui }
func (d decoded) IsAddiu() bool { return d.opcode() == opAddiu }

func (d decoded) IsLoad() bool {
	switch d.opcode() {
	case opLb, opLh, opLw, opLbu, opLhu, opLwu, opLd:
		return true
	default:
		return false
	}
}

func (d decoded) IsStore() bool {
	switch d.opcode() {
	case opSb, opSh, opSw, opSd:
		return true
	default:
		return false
	}
}

func (d decoded) JumpTarget() (uint32, bool) {
	if !d.IsJump() && !d.IsJumpAndLink() {
		return 0, false
	}
	field := d.view().Read(0, 26)
	// The delay slot follows this instruction; its vram supplies the top
	// bits of the pseudo-direct target per MIPS's jump addressing mode.
	delaySlotVram := d.vram + 4
	return (delaySlotVram & 0xF0000000) | (field << 2), true
}

func (d decoded) BranchTarget() (uint32, bool) {
	if !d.IsBranch() {
		return 0, false
	}
	offset := d.Immediate() << 2
	delaySlotVram := d.vram + 4
	return uint32(int64(delaySlotVram) + int64(offset)), true
}

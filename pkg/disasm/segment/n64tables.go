package segment

import "github.com/spimgo/spimgo/pkg/disasm/symbol"

// libultraSym is one row of the fixed N64 libultra global table.
type libultraSym struct {
	vram uint32
	name string
	size uint32
}

// n64LibultraSyms mirrors SymbolsSegment.py's N64LibultraSyms verbatim.
var n64LibultraSyms = []libultraSym{
	{0x800001A0, "leoBootID", 0x4},
	{0x80000300, "osTvType", 0x4},
	{0x80000304, "osRomType", 0x4},
	{0x80000308, "osRomBase", 0x4},
	{0x8000030C, "osResetType", 0x4},
	{0x80000310, "osCicId", 0x4},
	{0x80000314, "osVersion", 0x4},
	{0x80000318, "osMemSize", 0x4},
	{0x8000031C, "osAppNmiBuffer", 0x40},
}

// hardwareReg is one row of the N64 hardware register table.
type hardwareReg struct {
	vram uint32
	name string
}

// n64HardwareRegs mirrors SymbolsSegment.py's N64HardwareRegs verbatim,
// including the three placeholder names at 0xA4600005/6/7 (Open Question
// decision #2 in SPEC_FULL.md: keep them literal, they are not real names).
var n64HardwareRegs = []hardwareReg{
	{0xA4040000, "SP_MEM_ADDR_REG"},
	{0xA4040004, "SP_DRAM_ADDR_REG"},
	{0xA4040008, "SP_RD_LEN_REG"},
	{0xA404000C, "SP_WR_LEN_REG"},
	{0xA4040010, "SP_STATUS_REG"},
	{0xA4040014, "SP_DMA_FULL_REG"},
	{0xA4040018, "SP_DMA_BUSY_REG"},
	{0xA404001C, "SP_SEMAPHORE_REG"},
	{0xA4080000, "SP_PC"},
	{0xA4100000, "DPC_START_REG"},
	{0xA4100004, "DPC_END_REG"},
	{0xA4100008, "DPC_CURRENT_REG"},
	{0xA410000C, "DPC_STATUS_REG"},
	{0xA4100010, "DPC_CLOCK_REG"},
	{0xA4100014, "DPC_BUFBUSY_REG"},
	{0xA4100018, "DPC_PIPEBUSY_REG"},
	{0xA410001C, "DPC_TMEM_REG"},
	{0xA4200000, "DPS_TBIST_REG"},
	{0xA4200004, "DPS_TEST_MODE_REG"},
	{0xA4200008, "DPS_BUFTEST_ADDR_REG"},
	{0xA420000C, "DPS_BUFTEST_DATA_REG"},
	{0xA4300000, "MI_MODE_REG"},
	{0xA4300004, "MI_VERSION_REG"},
	{0xA4300008, "MI_INTR_REG"},
	{0xA430000C, "MI_INTR_MASK_REG"},
	{0xA4400000, "VI_STATUS_REG"},
	{0xA4400004, "VI_ORIGIN_REG"},
	{0xA4400008, "VI_WIDTH_REG"},
	{0xA440000C, "VI_INTR_REG"},
	{0xA4400010, "VI_CURRENT_REG"},
	{0xA4400014, "VI_BURST_REG"},
	{0xA4400018, "VI_V_SYNC_REG"},
	{0xA440001C, "VI_H_SYNC_REG"},
	{0xA4400020, "VI_LEAP_REG"},
	{0xA4400024, "VI_H_START_REG"},
	{0xA4400028, "VI_V_START_REG"},
	{0xA440002C, "VI_V_BURST_REG"},
	{0xA4400030, "VI_X_SCALE_REG"},
	{0xA4400034, "VI_Y_SCALE_REG"},
	{0xA4500000, "AI_DRAM_ADDR_REG"},
	{0xA4500004, "AI_LEN_REG"},
	{0xA4500008, "AI_CONTROL_REG"},
	{0xA450000C, "AI_STATUS_REG"},
	{0xA4500010, "AI_DACRATE_REG"},
	{0xA4500014, "AI_BITRATE_REG"},
	{0xA4600000, "PI_DRAM_ADDR_REG"},
	{0xA4600004, "PI_CART_ADDR_REG"},
	{0xA4600005, "D_A4600005"},
	{0xA4600006, "D_A4600006"},
	{0xA4600007, "D_A4600007"},
	{0xA4600008, "PI_RD_LEN_REG"},
	{0xA460000C, "PI_WR_LEN_REG"},
	{0xA4600010, "PI_STATUS_REG"},
	{0xA4600014, "PI_BSD_DOM1_LAT_REG"},
	{0xA4600018, "PI_BSD_DOM1_PWD_REG"},
	{0xA460001C, "PI_BSD_DOM1_PGS_REG"},
	{0xA4600020, "PI_BSD_DOM1_RLS_REG"},
	{0xA4600024, "PI_BSD_DOM2_LAT_REG"},
	{0xA4600028, "PI_BSD_DOM2_PWD_REG"},
	{0xA460002C, "PI_BSD_DOM2_PGS_REG"},
	{0xA4600030, "PI_BSD_DOM2_RLS_REG"},
	{0xA4700000, "RI_MODE_REG"},
	{0xA4700004, "RI_CONFIG_REG"},
	{0xA4700008, "RI_CURRENT_LOAD_REG"},
	{0xA470000C, "RI_SELECT_REG"},
	{0xA4700010, "RI_REFRESH_REG"},
	{0xA4700014, "RI_LATENCY_REG"},
	{0xA4700018, "RI_RERROR_REG"},
	{0xA470001C, "RI_WERROR_REG"},
	{0xA4800000, "SI_DRAM_ADDR_REG"},
	{0xA4800004, "SI_PIF_ADDR_RD64B_REG"},
	{0xA4800010, "SI_PIF_ADDR_WR64B_REG"},
	{0xA4800018, "SI_STATUS_REG"},
}

// N64DefaultBanned mirrors Context.py's N64DefaultBanned set: addresses
// that must never be treated as symbols regardless of any reference found
// pointing at them (spec.md §6).
var N64DefaultBanned = []uint32{
	0x7FFFFFE0, 0x7FFFFFF0, 0x7FFFFFFF, 0x80000010, 0x80000020,
}

// FillLibultraSyms adds every N64 libultra global as a user-declared Word
// symbol, matching Context.fillLibultraSymbols.
func (s *SymbolsSegment) FillLibultraSyms() {
	for _, row := range n64LibultraSyms {
		sym := s.AddSymbol(row.vram, symbol.SectionData, false, nil)
		size := row.size
		sym.Name = row.name
		sym.Size = &size
		sym.IsUserDeclared = true
		sym.IsDefined = true
		sym.Type = symbol.Word
	}
}

// FillHardwareRegs adds every N64 hardware register as a user-declared
// HardwareReg symbol. useRealNames is accepted for API parity with the
// original's fillHardwareRegs(useRealNames=False) but every name in
// n64HardwareRegs is already the "real" register name (or the literal
// D_A460000x placeholder where no real name is known).
func (s *SymbolsSegment) FillHardwareRegs(useRealNames bool) {
	_ = useRealNames
	for _, row := range n64HardwareRegs {
		sym := s.AddSymbol(row.vram, symbol.SectionData, false, nil)
		sym.Name = row.name
		sym.IsUserDeclared = true
		sym.IsDefined = true
		sym.Type = symbol.HardwareReg
	}
}

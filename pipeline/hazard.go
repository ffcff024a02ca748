package pipeline

import (
	"github.com/AlyanTheCodingLegend/rv32pipesim/isa"
	"github.com/AlyanTheCodingLegend/rv32pipesim/sim"
)

// HazardUnit detects data hazards with no forwarding available: any true
// RAW dependency between the instruction currently decoding (IF/ID) and
// the instructions currently in EX (ID/EX) or MEM (EX/MEM) must stall,
// since there is no bypass network to supply the value early. EX/MEM has
// priority checked second, one cycle later in the producer's lifetime,
// matching the original design's EX-stage-first hazard precedence.
type HazardUnit struct {
	IFID  *sim.Port[IFIDRecord]
	IDEX  *sim.Port[IDEXRecord]
	EXMEM *sim.Port[EXMEMRecord]

	StallPC   *sim.Port[bool]
	StallIFID *sim.Port[bool]
	FlushIDEX *sim.Port[bool]
}

// NewHazardUnit creates a hazard unit wired to the three registers it
// observes.
func NewHazardUnit(k *sim.Kernel) *HazardUnit {
	return &HazardUnit{
		IFID:      sim.NewPort[IFIDRecord](k),
		IDEX:      sim.NewPort[IDEXRecord](k),
		EXMEM:     sim.NewPort[EXMEMRecord](k),
		StallPC:   sim.NewPort[bool](k),
		StallIFID: sim.NewPort[bool](k),
		FlushIDEX: sim.NewPort[bool](k),
	}
}

// Process implements sim.Module.
func (h *HazardUnit) Process() {
	ifid := h.IFID.Read()
	idex := h.IDEX.Read()
	exmem := h.EXMEM.Read()

	d := isa.Decode(ifid.Inst)
	usesRS1 := isa.NeedsRS1(d.Opcode)
	usesRS2 := isa.NeedsRS2(d.Opcode)

	reads := func(rd uint32) bool {
		if rd == 0 {
			return false
		}
		return (usesRS1 && d.Rs1 == rd) || (usesRS2 && d.Rs2 == rd)
	}

	hazard := false
	if idex.We && reads(idex.Rd) {
		hazard = true
	} else if exmem.We && reads(exmem.Rd) {
		hazard = true
	}

	h.StallPC.Write(hazard)
	h.StallIFID.Write(hazard)
	h.FlushIDEX.Write(hazard)
}

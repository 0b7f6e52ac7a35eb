// grid/system.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"fmt"
	"strings"

	"github.com/brunoga/deep"

	"github.com/gridwork/gridcase/util"
)

// System is the aggregate produced by a successful parse: the ordered
// element collections plus the system base used for per-unit conversion.
// Parsers guarantee that bus ids are unique and every bus id referenced by
// another element exists; a System is never mutated after assembly, so it
// may be shared freely across goroutines. Callers that want a mutable
// copy should Clone it first.
type System struct {
	Name           string
	BaseMVA        float64
	Buses          []Bus
	Loads          []Load
	Shunts         []Shunt
	Generators     []Generator
	Branches       []Branch
	GeneratorCosts []GeneratorCost
}

// Clone returns an independent deep copy of the system.
func (s *System) Clone() *System {
	c := deep.MustCopy(*s)
	return &c
}

// Bus returns the bus with the given id, if present.
func (s *System) Bus(id int) (Bus, bool) {
	for _, b := range s.Buses {
		if b.ID == id {
			return b, true
		}
	}
	return Bus{}, false
}

// BusIndex returns the position of the bus with the given id in
// s.Buses, or -1.
func (s *System) BusIndex(id int) int {
	for i, b := range s.Buses {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// BusIDs returns the bus ids in file order.
func (s *System) BusIDs() []int {
	return util.MapSlice(s.Buses, func(b Bus) int { return b.ID })
}

func (s *System) SlackBuses() []Bus {
	return util.FilterSlice(s.Buses, func(b Bus) bool { return b.Type == BusSlack })
}

func (s *System) PVBuses() []Bus {
	return util.FilterSlice(s.Buses, func(b Bus) bool { return b.Type == BusPV })
}

func (s *System) PQBuses() []Bus {
	return util.FilterSlice(s.Buses, func(b Bus) bool { return b.Type == BusPQ })
}

// BusGenerators returns the generators attached to a bus, in-service only
// when inServiceOnly is set.
func (s *System) BusGenerators(busID int, inServiceOnly bool) []Generator {
	return util.FilterSlice(s.Generators, func(g Generator) bool {
		return g.BusID == busID && (!inServiceOnly || g.Status == InService)
	})
}

func (s *System) BusLoads(busID int, inServiceOnly bool) []Load {
	return util.FilterSlice(s.Loads, func(l Load) bool {
		return l.BusID == busID && (!inServiceOnly || l.Status == InService)
	})
}

func (s *System) BusShunts(busID int, inServiceOnly bool) []Shunt {
	return util.FilterSlice(s.Shunts, func(sh Shunt) bool {
		return sh.BusID == busID && (!inServiceOnly || sh.Status == InService)
	})
}

// BusBranches returns the branches with either endpoint at the bus.
func (s *System) BusBranches(busID int, inServiceOnly bool) []Branch {
	return util.FilterSlice(s.Branches, func(b Branch) bool {
		return (b.FromBus == busID || b.ToBus == busID) &&
			(!inServiceOnly || b.Status == InService)
	})
}

// BusPInjectionMW returns the net active power injection at a bus:
// in-service generation minus in-service load.
func (s *System) BusPInjectionMW(busID int) float64 {
	var p float64
	for _, g := range s.BusGenerators(busID, true) {
		p += g.PMW
	}
	for _, l := range s.BusLoads(busID, true) {
		p -= l.PMW
	}
	return p
}

// BusQInjectionMVAr returns the net reactive power injection at a bus,
// excluding the voltage-dependent shunt contribution.
func (s *System) BusQInjectionMVAr(busID int) float64 {
	var q float64
	for _, g := range s.BusGenerators(busID, true) {
		q += g.QMVAr
	}
	for _, l := range s.BusLoads(busID, true) {
		q -= l.QMVAr
	}
	return q
}

// BusShuntAdmittance returns the total in-service shunt (G, B) at a bus
// in per-unit on system base.
func (s *System) BusShuntAdmittance(busID int) (gPU, bPU float64) {
	for _, sh := range s.BusShunts(busID, true) {
		gPU += sh.GPU
		bPU += sh.BPU
	}
	return
}

// TotalGeneration sums in-service generator output.
func (s *System) TotalGeneration() (pMW, qMVAr float64) {
	for _, g := range s.Generators {
		if g.Status == InService {
			pMW += g.PMW
			qMVAr += g.QMVAr
		}
	}
	return
}

// TotalLoad sums in-service load demand.
func (s *System) TotalLoad() (pMW, qMVAr float64) {
	for _, l := range s.Loads {
		if l.Status == InService {
			pMW += l.PMW
			qMVAr += l.QMVAr
		}
	}
	return
}

// InServiceBranches returns the branches with status 1.
func (s *System) InServiceBranches() []Branch {
	return util.FilterSlice(s.Branches, func(b Branch) bool { return b.Status == InService })
}

// VoltageRange returns the lowest and highest bus voltage magnitudes.
func (s *System) VoltageRange() (lo, hi float64) {
	for i, b := range s.Buses {
		if i == 0 || b.VMagnitude < lo {
			lo = b.VMagnitude
		}
		if i == 0 || b.VMagnitude > hi {
			hi = b.VMagnitude
		}
	}
	return
}

// Description returns a short human-readable summary of the system.
func (s *System) Description() string {
	name := s.Name
	if name == "" {
		name = "Unnamed System"
	}
	pGen, qGen := s.TotalGeneration()
	pLoad, qLoad := s.TotalLoad()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Power System: %s\n", name)
	fmt.Fprintf(&sb, "  Base MVA: %.1f\n", s.BaseMVA)
	fmt.Fprintf(&sb, "  Components: %d buses, %d branches, %d generators, %d loads, %d shunts\n",
		len(s.Buses), len(s.Branches), len(s.Generators), len(s.Loads), len(s.Shunts))
	fmt.Fprintf(&sb, "  Total Generation: %.1f MW, %.1f MVAr\n", pGen, qGen)
	fmt.Fprintf(&sb, "  Total Load: %.1f MW, %.1f MVAr", pLoad, qLoad)
	return sb.String()
}

// Validate re-checks the structural invariants the parsers establish.
// It is exercised by the validate CLI command against hand-edited files
// that were loaded from a cached snapshot rather than parsed directly.
func (s *System) Validate(e *util.ErrorLogger) {
	seen := make(map[int]any)
	for _, b := range s.Buses {
		if _, ok := seen[b.ID]; ok {
			e.ErrorString("duplicate bus id %d", b.ID)
		}
		seen[b.ID] = nil
	}

	check := func(element string, busID int) {
		if _, ok := seen[busID]; !ok {
			e.Error(&DanglingReferenceError{Element: element, BusID: busID})
		}
	}
	for i, l := range s.Loads {
		check(fmt.Sprintf("load %d (id %q)", i, l.LoadID), l.BusID)
	}
	for i, sh := range s.Shunts {
		check(fmt.Sprintf("shunt %d (id %q)", i, sh.ShuntID), sh.BusID)
	}
	for i, g := range s.Generators {
		check(fmt.Sprintf("generator %d (id %q)", i, g.GenID), g.BusID)
	}
	for i, b := range s.Branches {
		check(fmt.Sprintf("branch %d (circuit %q) from-bus", i, b.CircuitID), b.FromBus)
		check(fmt.Sprintf("branch %d (circuit %q) to-bus", i, b.CircuitID), b.ToBus)
	}
	for _, c := range s.GeneratorCosts {
		if c.GenIndex < 0 || c.GenIndex >= len(s.Generators) {
			e.ErrorString("generator cost references generator %d of %d", c.GenIndex, len(s.Generators))
		}
	}
}

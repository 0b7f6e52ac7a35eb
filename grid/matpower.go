// grid/matpower.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseMATPOWER parses a matrix-oriented power-flow case from r. The
// format is a restricted MATLAB script: scalar assignments plus bracketed
// numeric matrices, one row per element. Bus rows carry demand and shunt
// admittance inline, so a single row may yield a Bus, a Load, and a
// Shunt. Parsing stops at the first error; no partial system is
// returned.
func ParseMATPOWER(r io.Reader) (*System, error) {
	p := &mpParser{asm: newAssembler()}
	if err := p.scan(r); err != nil {
		return nil, err
	}

	if p.busRows == nil {
		return nil, &MalformedRecordError{Section: "mpc.bus", Line: p.lineno,
			Cause: "case has no bus matrix"}
	}

	if err := p.buildBuses(); err != nil {
		return nil, err
	}
	if err := p.buildGenerators(); err != nil {
		return nil, err
	}
	if err := p.buildBranches(); err != nil {
		return nil, err
	}
	if err := p.buildCosts(); err != nil {
		return nil, err
	}
	return p.asm.finalize()
}

type mpRow struct {
	line int
	toks []string
}

type mpParser struct {
	asm    *assembler
	lineno int

	busRows    []mpRow
	genRows    []mpRow
	branchRows []mpRow
	costRows   []mpRow
}

// scan splits the script into scalar assignments and matrix blocks. A
// matrix block opens with "mpc.<name> = [" and closes with "];"; rows in
// between are whitespace-separated numbers with an optional trailing
// semicolon. '%' starts a comment anywhere.
func (p *mpParser) scan(r io.Reader) error {
	var matrix *[]mpRow // non-nil while inside a bracketed block

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '%'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matrix != nil {
			if strings.HasPrefix(line, "]") {
				matrix = nil
				continue
			}
			row := strings.TrimSuffix(line, ";")
			toks := strings.Fields(row)
			if len(toks) > 0 {
				*matrix = append(*matrix, mpRow{line: p.lineno, toks: toks})
			}
			continue
		}

		name, value, found := strings.Cut(line, "=")
		if !found {
			continue // function declaration, end statements
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		if strings.HasSuffix(value, "[") {
			switch name {
			case "mpc.bus":
				matrix = &p.busRows
			case "mpc.gen":
				matrix = &p.genRows
			case "mpc.branch":
				matrix = &p.branchRows
			case "mpc.gencost":
				matrix = &p.costRows
			default:
				matrix = &[]mpRow{} // e.g. mpc.bus_name: scan past it
			}
			continue
		}

		switch name {
		case "mpc.baseMVA":
			v, err := strconv.ParseFloat(strings.TrimSuffix(value, ";"), 64)
			if err != nil {
				return &MalformedFieldError{Section: "mpc.baseMVA", Line: p.lineno,
					Field: 1, Token: value, Want: "number"}
			}
			p.asm.sys.BaseMVA = v
		case "function mpc":
			// "function mpc = case9": the case name.
			p.asm.sys.Name = strings.TrimSuffix(value, ";")
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if matrix != nil {
		return &TruncatedInputError{Section: "matrix block", Line: p.lineno}
	}
	return nil
}

func (r mpRow) rec(section string) fieldRec {
	return fieldRec{section: section, line: r.line, toks: r.toks}
}

// Bus matrix columns: BUS_I, TYPE, PD, QD, GS, BS, AREA, VM, VA,
// BASE_KV, ZONE, VMAX, VMIN. Nonzero PD/QD becomes a Load and nonzero
// GS/BS becomes a Shunt, both keyed "1" at the bus.
func (p *mpParser) buildBuses() error {
	for _, row := range p.busRows {
		f := row.rec("mpc.bus")

		id, err := f.Int(0, 0)
		if err != nil {
			return err
		}
		btype, err := f.BusType(1)
		if err != nil {
			return err
		}
		pd, err := f.Float(2, 0.0)
		if err != nil {
			return err
		}
		qd, err := f.Float(3, 0.0)
		if err != nil {
			return err
		}
		gs, err := f.Float(4, 0.0)
		if err != nil {
			return err
		}
		bs, err := f.Float(5, 0.0)
		if err != nil {
			return err
		}
		area, err := f.Int(6, 1)
		if err != nil {
			return err
		}
		vm, err := f.Float(7, 1.0)
		if err != nil {
			return err
		}
		va, err := f.Float(8, 0.0)
		if err != nil {
			return err
		}
		baseKV, err := f.Float(9, 1.0)
		if err != nil {
			return err
		}
		zone, err := f.Int(10, 1)
		if err != nil {
			return err
		}

		err = p.asm.addBus(Bus{
			ID:         id,
			Type:       btype,
			BaseKV:     baseKV,
			VMagnitude: vm,
			VAngleDeg:  va,
			Area:       area,
			Zone:       zone,
		}, f.section, f.line)
		if err != nil {
			return err
		}

		if pd != 0 || qd != 0 {
			p.asm.addLoad(Load{
				BusID:  id,
				LoadID: "1",
				PMW:    pd,
				QMVAr:  qd,
				Status: InService,
			})
		}
		if gs != 0 || bs != 0 {
			p.asm.addShunt(Shunt{
				BusID:   id,
				ShuntID: "1",
				GPU:     gs / p.asm.sys.BaseMVA,
				BPU:     bs / p.asm.sys.BaseMVA,
				Status:  InService,
			})
		}
	}
	return nil
}

// Gen matrix columns: GEN_BUS, PG, QG, QMAX, QMIN, VG, MBASE, STATUS,
// PMAX, PMIN. Any positive status code means in service.
func (p *mpParser) buildGenerators() error {
	for _, row := range p.genRows {
		f := row.rec("mpc.gen")

		id, err := f.Int(0, 0)
		if err != nil {
			return err
		}
		pg, err := f.Float(1, 0.0)
		if err != nil {
			return err
		}
		qg, err := f.Float(2, 0.0)
		if err != nil {
			return err
		}
		qmax, err := f.Float(3, 9999.0)
		if err != nil {
			return err
		}
		qmin, err := f.Float(4, -9999.0)
		if err != nil {
			return err
		}
		vg, err := f.Float(5, 1.0)
		if err != nil {
			return err
		}
		mbase, err := f.Float(6, p.asm.sys.BaseMVA)
		if err != nil {
			return err
		}
		stat, err := f.Int(7, 1)
		if err != nil {
			return err
		}

		if qmin > qmax {
			return &MalformedRecordError{Section: f.section, Line: f.line,
				Cause: fmt.Sprintf("reactive limits inconsistent: QMIN %g exceeds QMAX %g", qmin, qmax)}
		}

		status := OutOfService
		if stat > 0 {
			status = InService
		}
		p.asm.addGenerator(Generator{
			BusID:     id,
			GenID:     "1",
			PMW:       pg,
			QMVAr:     qg,
			QMaxMVAr:  qmax,
			QMinMVAr:  qmin,
			VSetpoint: vg,
			MBase:     mbase,
			Status:    status,
		})
	}
	return nil
}

// Branch matrix columns: F_BUS, T_BUS, R, X, B, RATE_A, RATE_B, RATE_C,
// TAP, SHIFT, STATUS. A zero TAP means a plain line at nominal ratio; a
// nonzero TAP or SHIFT marks a transformer.
func (p *mpParser) buildBranches() error {
	for _, row := range p.branchRows {
		f := row.rec("mpc.branch")

		from, err := f.Int(0, 0)
		if err != nil {
			return err
		}
		to, err := f.Int(1, 0)
		if err != nil {
			return err
		}
		r, err := f.Float(2, 0.0)
		if err != nil {
			return err
		}
		x, err := f.Float(3, 0.0)
		if err != nil {
			return err
		}
		b, err := f.Float(4, 0.0)
		if err != nil {
			return err
		}
		rateA, err := f.Float(5, 0.0)
		if err != nil {
			return err
		}
		rateB, err := f.Float(6, 0.0)
		if err != nil {
			return err
		}
		rateC, err := f.Float(7, 0.0)
		if err != nil {
			return err
		}
		tap, err := f.Float(8, 0.0)
		if err != nil {
			return err
		}
		shift, err := f.Float(9, 0.0)
		if err != nil {
			return err
		}
		status, err := f.Status(10, InService)
		if err != nil {
			return err
		}

		ratio := tap
		if ratio == 0 {
			ratio = 1.0
		}
		p.asm.addBranch(Branch{
			FromBus:       from,
			ToBus:         to,
			CircuitID:     "1",
			RPU:           r,
			XPU:           x,
			BPU:           b,
			RateMVA:       rateA,
			RateShortMVA:  rateB,
			RateEmergMVA:  rateC,
			TapRatio:      ratio,
			ShiftAngleDeg: shift,
			Status:        status,
			IsTransformer: tap != 0 || shift != 0,
		})
	}
	return nil
}

// Gencost matrix columns: MODEL, STARTUP, SHUTDOWN, NCOST, then NCOST
// polynomial coefficients (highest order first) or NCOST (power, cost)
// breakpoint pairs. Rows align with gen rows; a matrix with 2*ngen rows
// carries reactive costs in its second half, which are ignored.
func (p *mpParser) buildCosts() error {
	ngen := len(p.genRows)
	rows := p.costRows
	if len(rows) == 2*ngen {
		rows = rows[:ngen]
	} else if len(rows) > 0 && len(rows) != ngen {
		return &MalformedRecordError{Section: "mpc.gencost", Line: rows[0].line,
			Cause: fmt.Sprintf("%d cost rows for %d generators", len(rows), ngen)}
	}

	for i, row := range rows {
		f := row.rec("mpc.gencost")

		model, err := f.Int(0, 0)
		if err != nil {
			return err
		}
		if model != int(CostPiecewiseLinear) && model != int(CostPolynomial) {
			return f.malformed(0, "cost model (1 or 2)")
		}
		startup, err := f.Float(1, 0.0)
		if err != nil {
			return err
		}
		shutdown, err := f.Float(2, 0.0)
		if err != nil {
			return err
		}
		ncost, err := f.Int(3, 0)
		if err != nil {
			return err
		}

		want := ncost
		if model == int(CostPiecewiseLinear) {
			want = 2 * ncost
		}
		if len(f.toks)-4 != want {
			return &MalformedRecordError{Section: f.section, Line: f.line,
				Cause: fmt.Sprintf("cost row carries %d values, NCOST %d needs %d",
					len(f.toks)-4, ncost, want)}
		}

		coeffs := make([]float64, want)
		for j := range coeffs {
			coeffs[j], err = f.Float(4+j, 0.0)
			if err != nil {
				return err
			}
		}

		p.asm.addGeneratorCost(GeneratorCost{
			GenIndex:     i,
			Model:        CostModel(model),
			StartupUSD:   startup,
			ShutdownUSD:  shutdown,
			Coefficients: coeffs,
		})
	}
	return nil
}

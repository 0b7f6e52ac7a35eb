// grid/raw.go
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

// The RAW format comes in two mutually incompatible structural dialects.
// Both begin with a three-line case identification header and then carry
// the same sections in the same canonical order; they disagree on how a
// section ends. The sentinel dialect terminates each section with a bare
// record whose primary id field is 0. The marker dialect terminates each
// section with an explicit "0 / END OF <SECTION> DATA, BEGIN <NEXT> DATA"
// line (and ends the file with "Q"). A file uses one dialect throughout;
// detection happens once, at the first section boundary.
type rawDialect int

const (
	dialectSentinel rawDialect = iota
	dialectMarker
)

func (d rawDialect) String() string {
	if d == dialectMarker {
		return "marker"
	}
	return "sentinel"
}

type rawSection int

const (
	secBus rawSection = iota
	secLoad
	secFixedShunt
	secGenerator
	secBranch
	secTransformer
	// Recognized but skip-parsed from here on.
	secArea
	secTwoTerminalDC
	secVSCDC
	secImpedanceCorrection
	secMultiTerminalDC
	secMultiSectionLine
	secZone
	secInterAreaTransfer
	secOwner
	secFACTS
	secSwitchedShunt
	secGNE
	secInductionMachine
	secSubstation
	secThreeWinding
	numRawSections
)

var rawSectionNames = [numRawSections]string{
	"bus data",
	"load data",
	"fixed shunt data",
	"generator data",
	"branch data",
	"transformer data",
	"area data",
	"two-terminal dc data",
	"vsc dc line data",
	"impedance correction data",
	"multi-terminal dc data",
	"multi-section line data",
	"zone data",
	"inter-area transfer data",
	"owner data",
	"facts device data",
	"switched shunt data",
	"gne device data",
	"induction machine data",
	"substation data",
	"three-winding transformer data",
}

// rawSectionsByMarkerName maps the section names that appear in marker
// lines (upper case, without the trailing " DATA") onto sections,
// including the spelling variants different writers emit.
var rawSectionsByMarkerName = map[string]rawSection{
	"BUS":                              secBus,
	"LOAD":                             secLoad,
	"FIXED SHUNT":                      secFixedShunt,
	"FIXED BUS SHUNT":                  secFixedShunt,
	"GENERATOR":                        secGenerator,
	"BRANCH":                           secBranch,
	"TRANSFORMER":                      secTransformer,
	"AREA":                             secArea,
	"AREA INTERCHANGE":                 secArea,
	"TWO-TERMINAL DC":                  secTwoTerminalDC,
	"TWO-TERMINAL DC LINE":             secTwoTerminalDC,
	"VSC DC":                           secVSCDC,
	"VSC DC LINE":                      secVSCDC,
	"IMPEDANCE CORRECTION":             secImpedanceCorrection,
	"TRANSFORMER IMPEDANCE CORRECTION": secImpedanceCorrection,
	"MULTI-TERMINAL DC":                secMultiTerminalDC,
	"MULTI-TERMINAL DC LINE":           secMultiTerminalDC,
	"MULTI-SECTION LINE":               secMultiSectionLine,
	"MULTI-SECTION LINE GROUPING":      secMultiSectionLine,
	"ZONE":                             secZone,
	"INTER-AREA TRANSFER":              secInterAreaTransfer,
	"INTERAREA TRANSFER":               secInterAreaTransfer,
	"OWNER":                            secOwner,
	"FACTS":                            secFACTS,
	"FACTS DEVICE":                     secFACTS,
	"FACTS CONTROL DEVICE":             secFACTS,
	"SWITCHED SHUNT":                   secSwitchedShunt,
	"GNE":                              secGNE,
	"GNE DEVICE":                       secGNE,
	"INDUCTION MACHINE":                secInductionMachine,
	"SUBSTATION":                       secSubstation,
	"SYSTEM SWITCHING DEVICE":          secSubstation,
	"THREE-WINDING TRANSFORMER":        secThreeWinding,
}

// ParseRAW parses a record-oriented power-flow case from r, detecting
// which dialect it uses, and returns the assembled and validated System.
// Parsing stops at the first error; no partial system is ever returned.
func ParseRAW(r io.Reader) (*System, error) {
	p := &rawParser{asm: newAssembler()}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		p.lines = append(p.lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	p.dialect = p.detectDialect()

	if err := p.run(); err != nil {
		return nil, err
	}
	return p.asm.finalize()
}

type rawParser struct {
	lines   []string
	pos     int // index of the next line to consume
	lineno  int // 1-based number of the line most recently consumed
	dialect rawDialect
	section rawSection
	asm     *assembler
	skipped [numRawSections]int // line counts for skip-parsed sections
}

// next returns the next physical line, skipping '@' comment lines.
func (p *rawParser) next() (string, bool) {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++
		p.lineno = p.pos
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			continue
		}
		return line, true
	}
	return "", false
}

// parseHeader consumes the three case identification lines: base MVA plus
// metadata, then two free-text title lines.
func (p *rawParser) parseHeader() error {
	line, ok := p.next()
	if !ok {
		return &TruncatedInputError{Section: "case identification", Line: p.lineno}
	}
	toks, _ := tokenize(line)
	f := fieldRec{section: "case identification", line: p.lineno, toks: toks}

	// IC, SBASE, REV, XFRRAT, NXFRAT, BASFRQ
	base, err := f.Float(1, 100.0)
	if err != nil {
		return err
	}
	p.asm.sys.BaseMVA = base

	for i := 0; i < 2; i++ {
		title, ok := p.next()
		if !ok {
			return &TruncatedInputError{Section: "case identification", Line: p.lineno}
		}
		if title = strings.TrimSpace(title); title != "" && p.asm.sys.Name == "" {
			p.asm.sys.Name = title
		}
	}
	return nil
}

// detectDialect scans forward (without consuming) for the first section
// boundary. A boundary line carrying an "END OF" comment locks the marker
// dialect; a bare sentinel locks the sentinel dialect. Detection is not
// re-evaluated later: a file uses one dialect throughout.
func (p *rawParser) detectDialect() rawDialect {
	for _, line := range p.lines[p.pos:] {
		fields, comment := tokenize(line)
		if len(fields) != 1 {
			continue
		}
		if strings.EqualFold(fields[0], "Q") {
			return dialectMarker
		}
		if v, err := strconv.Atoi(fields[0]); err == nil && v == 0 {
			if strings.Contains(strings.ToUpper(comment), "END OF") {
				return dialectMarker
			}
			return dialectSentinel
		}
	}
	return dialectSentinel
}

func (p *rawParser) run() error {
	for {
		line, ok := p.next()
		if !ok {
			// Trailing skip-only sections may be absent entirely; a
			// supported section must see its terminator.
			if p.section >= secArea {
				return nil
			}
			return &TruncatedInputError{Section: rawSectionNames[p.section], Line: p.lineno}
		}

		fields, comment := tokenize(line)
		if len(fields) == 0 {
			continue // blank or pure comment line
		}

		if done, err := p.maybeTerminator(fields, comment); err != nil {
			return err
		} else if done == terminatorEOF {
			return nil
		} else if done == terminatorSection {
			if p.section >= numRawSections {
				return nil
			}
			continue
		}

		f := fieldRec{section: rawSectionNames[p.section], line: p.lineno, toks: fields}
		var err error
		switch p.section {
		case secBus:
			err = p.parseBus(f)
		case secLoad:
			err = p.parseLoad(f)
		case secFixedShunt:
			err = p.parseFixedShunt(f)
		case secGenerator:
			err = p.parseGenerator(f)
		case secBranch:
			err = p.parseBranch(f)
		case secTransformer:
			err = p.parseTransformer(f)
		default:
			// Recognized but unsupported: count the line, decode nothing.
			p.skipped[p.section]++
		}
		if err != nil {
			return err
		}
	}
}

type terminatorKind int

const (
	notTerminator terminatorKind = iota
	terminatorSection
	terminatorEOF
)

// maybeTerminator decides whether a tokenized line ends the current
// section and, if so, advances the state machine. Terminator lines carry
// exactly one field: the sentinel 0 (optionally followed by a marker
// comment) or the end-of-data Q.
func (p *rawParser) maybeTerminator(fields []string, comment string) (terminatorKind, error) {
	if len(fields) != 1 {
		return notTerminator, nil
	}
	if strings.EqualFold(fields[0], "Q") {
		return terminatorEOF, nil
	}
	if v, err := strconv.Atoi(fields[0]); err != nil || v != 0 {
		return notTerminator, nil
	}

	if p.dialect == dialectMarker {
		if next, ok, err := parseMarker(comment, p.lineno); err != nil {
			return notTerminator, err
		} else if ok {
			p.section = next
			return terminatorSection, nil
		}
	}
	// Sentinel (or a bare "0 /" in the marker dialect): advance in
	// canonical order. The sentinel line is consumed here, never handed
	// to a record parser.
	p.section++
	return terminatorSection, nil
}

// parseMarker extracts the destination section from an "END OF <SECTION>
// DATA, BEGIN <NEXT> DATA" comment. A marker naming an unrecognized next
// section is fatal: position tracking cannot be trusted past it.
func parseMarker(comment string, lineno int) (rawSection, bool, error) {
	c := strings.ToUpper(strings.TrimSpace(comment))
	if !strings.Contains(c, "END OF") {
		return 0, false, nil
	}
	_, begin, found := strings.Cut(c, "BEGIN ")
	if !found {
		return 0, false, nil // terminal "END OF ... DATA" with no successor
	}
	name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(begin), "DATA"))
	sec, ok := rawSectionsByMarkerName[name]
	if !ok {
		return 0, false, &UnknownSectionError{Line: lineno, Name: name}
	}
	return sec, true, nil
}

// nextRecordLine reads the next non-blank line of a multi-line record.
// Hitting a terminator or end of input inside a record is an error.
func (p *rawParser) nextRecordLine(section string) (fieldRec, error) {
	for {
		line, ok := p.next()
		if !ok {
			return fieldRec{}, &TruncatedInputError{Section: section, Line: p.lineno}
		}
		fields, _ := tokenize(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) == 1 {
			if v, err := strconv.Atoi(fields[0]); (err == nil && v == 0) || strings.EqualFold(fields[0], "Q") {
				return fieldRec{}, &MalformedRecordError{Section: section, Line: p.lineno,
					Cause: "section ended inside a multi-line record"}
			}
		}
		return fieldRec{section: section, line: p.lineno, toks: fields}, nil
	}
}

func (p *rawParser) parseBus(f fieldRec) error {
	lay := busLayouts[p.dialect]

	id, err := f.Int(0, 0)
	if err != nil {
		return err
	}
	baseKV, err := f.Float(lay.baseKV, 1.0)
	if err != nil {
		return err
	}
	btype, err := f.BusType(lay.ide)
	if err != nil {
		return err
	}
	area, err := f.Int(lay.area, 1)
	if err != nil {
		return err
	}
	zone, err := f.Int(lay.zone, 1)
	if err != nil {
		return err
	}
	vmag, err := f.Float(lay.vmag, 1.0)
	if err != nil {
		return err
	}
	vang, err := f.Float(lay.vang, 0.0)
	if err != nil {
		return err
	}

	bus := Bus{
		ID:         id,
		Name:       f.Str(lay.name, ""),
		Type:       btype,
		BaseKV:     baseKV,
		VMagnitude: vmag,
		VAngleDeg:  vang,
		Area:       area,
		Zone:       zone,
	}
	if err := p.asm.addBus(bus, f.section, f.line); err != nil {
		return err
	}

	// The sentinel dialect carries fixed shunt admittance on the bus
	// record itself (MW/MVAr at unity voltage).
	if lay.gl >= 0 {
		gl, err := f.Float(lay.gl, 0.0)
		if err != nil {
			return err
		}
		bl, err := f.Float(lay.bl, 0.0)
		if err != nil {
			return err
		}
		if gl != 0 || bl != 0 {
			p.asm.addShunt(Shunt{
				BusID:   id,
				ShuntID: "1",
				GPU:     gl / p.asm.sys.BaseMVA,
				BPU:     bl / p.asm.sys.BaseMVA,
				Status:  InService,
			})
		}
	}
	return nil
}

func (p *rawParser) parseLoad(f fieldRec) error {
	// I, ID, STATUS, AREA, ZONE, PL, QL, ...
	id, err := f.Int(0, 0)
	if err != nil {
		return err
	}
	status, err := f.Status(2, InService)
	if err != nil {
		return err
	}
	pl, err := f.Float(5, 0.0)
	if err != nil {
		return err
	}
	ql, err := f.Float(6, 0.0)
	if err != nil {
		return err
	}

	p.asm.addLoad(Load{
		BusID:  id,
		LoadID: f.Str(1, "1"),
		PMW:    pl,
		QMVAr:  ql,
		Status: status,
	})
	return nil
}

func (p *rawParser) parseFixedShunt(f fieldRec) error {
	// I, ID, STATUS, GL, BL (MW/MVAr at unity voltage)
	id, err := f.Int(0, 0)
	if err != nil {
		return err
	}
	status, err := f.Status(2, InService)
	if err != nil {
		return err
	}
	gl, err := f.Float(3, 0.0)
	if err != nil {
		return err
	}
	bl, err := f.Float(4, 0.0)
	if err != nil {
		return err
	}

	p.asm.addShunt(Shunt{
		BusID:   id,
		ShuntID: f.Str(1, "1"),
		GPU:     gl / p.asm.sys.BaseMVA,
		BPU:     bl / p.asm.sys.BaseMVA,
		Status:  status,
	})
	return nil
}

func (p *rawParser) parseGenerator(f fieldRec) error {
	// I, ID, PG, QG, QT, QB, VS, IREG, MBASE, ..., STAT
	id, err := f.Int(0, 0)
	if err != nil {
		return err
	}
	pg, err := f.Float(2, 0.0)
	if err != nil {
		return err
	}
	qg, err := f.Float(3, 0.0)
	if err != nil {
		return err
	}
	qt, err := f.Float(4, 9999.0)
	if err != nil {
		return err
	}
	qb, err := f.Float(5, -9999.0)
	if err != nil {
		return err
	}
	vs, err := f.Float(6, 1.0)
	if err != nil {
		return err
	}
	mbase, err := f.Float(8, p.asm.sys.BaseMVA)
	if err != nil {
		return err
	}
	status, err := f.Status(14, InService)
	if err != nil {
		return err
	}

	if qb > qt {
		return &MalformedRecordError{Section: f.section, Line: f.line,
			Cause: fmt.Sprintf("reactive limits inconsistent: QB %g exceeds QT %g", qb, qt)}
	}

	p.asm.addGenerator(Generator{
		BusID:     id,
		GenID:     f.Str(1, "1"),
		PMW:       pg,
		QMVAr:     qg,
		QMaxMVAr:  qt,
		QMinMVAr:  qb,
		VSetpoint: vs,
		MBase:     mbase,
		Status:    status,
	})
	return nil
}

func (p *rawParser) parseBranch(f fieldRec) error {
	lay := branchLayouts[p.dialect]

	from, err := f.Int(0, 0)
	if err != nil {
		return err
	}
	to, err := f.Int(1, 0)
	if err != nil {
		return err
	}
	r, err := f.Float(lay.r, 0.0)
	if err != nil {
		return err
	}
	x, err := f.Float(lay.x, 0.0)
	if err != nil {
		return err
	}
	b, err := f.Float(lay.b, 0.0)
	if err != nil {
		return err
	}
	rateA, err := f.Float(lay.rateA, 0.0)
	if err != nil {
		return err
	}
	rateB, err := f.Float(lay.rateB, 0.0)
	if err != nil {
		return err
	}
	rateC, err := f.Float(lay.rateC, 0.0)
	if err != nil {
		return err
	}
	status, err := f.Status(lay.status, InService)
	if err != nil {
		return err
	}

	p.asm.addBranch(Branch{
		FromBus:      abs(from), // a negative endpoint marks the metered end
		ToBus:        abs(to),
		CircuitID:    f.Str(lay.ckt, "1"),
		Name:         f.Str(lay.name, ""),
		RPU:          r,
		XPU:          x,
		BPU:          b,
		RateMVA:      rateA,
		RateShortMVA: rateB,
		RateEmergMVA: rateC,
		TapRatio:     1.0,
		Status:       status,
	})
	return nil
}

// parseTransformer decodes a two-winding transformer record, which spans
// four physical lines. Three-winding records (nonzero K on the first
// line) span five lines and are skip-parsed, not decoded.
func (p *rawParser) parseTransformer(f fieldRec) error {
	lay := xfrmLayouts[p.dialect]

	from, err := f.Int(0, 0)
	if err != nil {
		return err
	}
	to, err := f.Int(1, 0)
	if err != nil {
		return err
	}
	k, err := f.Int(lay.k, 0)
	if err != nil {
		return err
	}
	if k != 0 {
		// Three-winding: first line plus four more.
		p.skipped[secThreeWinding]++
		for i := 0; i < 4; i++ {
			if _, err := p.nextRecordLine(f.section); err != nil {
				return err
			}
			p.skipped[secThreeWinding]++
		}
		return nil
	}

	status, err := f.Status(lay.status, InService)
	if err != nil {
		return err
	}
	ckt := f.Str(lay.ckt, "1")
	name := f.Str(lay.name, "")

	// Line 2: R1-2, X1-2, SBASE1-2
	f2, err := p.nextRecordLine(f.section)
	if err != nil {
		return err
	}
	r, err := f2.Float(0, 0.0)
	if err != nil {
		return err
	}
	x, err := f2.Float(1, 0.0)
	if err != nil {
		return err
	}

	// Line 3: WINDV1, NOMV1, ANG1, RATA1, RATB1, RATC1
	f3, err := p.nextRecordLine(f.section)
	if err != nil {
		return err
	}
	windv1, err := f3.Float(0, 1.0)
	if err != nil {
		return err
	}
	ang, err := f3.Float(2, 0.0)
	if err != nil {
		return err
	}
	rateA, err := f3.Float(3, 0.0)
	if err != nil {
		return err
	}
	rateB, err := f3.Float(4, 0.0)
	if err != nil {
		return err
	}
	rateC, err := f3.Float(5, 0.0)
	if err != nil {
		return err
	}

	// Line 4: WINDV2, NOMV2
	f4, err := p.nextRecordLine(f.section)
	if err != nil {
		return err
	}
	windv2, err := f4.Float(0, 1.0)
	if err != nil {
		return err
	}

	if windv1 == 0 || windv2 == 0 {
		return &MalformedRecordError{Section: f.section, Line: f4.line,
			Cause: "transformer winding ratio cannot be zero"}
	}

	p.asm.addBranch(Branch{
		FromBus:       abs(from),
		ToBus:         abs(to),
		CircuitID:     ckt,
		Name:          name,
		RPU:           r,
		XPU:           x,
		RateMVA:       rateA,
		RateShortMVA:  rateB,
		RateEmergMVA:  rateC,
		TapRatio:      windv1 / windv2,
		ShiftAngleDeg: ang,
		Status:        status,
		IsTransformer: true,
	})
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// assembler accumulates decoded records into the System as they arrive.
// Duplicate bus ids are rejected at append time; cross-reference
// validation is deferred to finalize, which checks every recorded
// reference in source order and reports the first dangling one.
type assembler struct {
	sys     System
	busLine map[int]int
	refs    []busRef
}

type busRef struct {
	element string
	busID   int
}

func newAssembler() *assembler {
	return &assembler{
		sys:     System{BaseMVA: 100.0},
		busLine: make(map[int]int),
	}
}

func (a *assembler) addBus(b Bus, section string, line int) error {
	if _, ok := a.busLine[b.ID]; ok {
		return &DuplicateKeyError{Section: section, Line: line, BusID: b.ID}
	}
	a.busLine[b.ID] = line
	a.sys.Buses = append(a.sys.Buses, b)
	return nil
}

func (a *assembler) addLoad(l Load) {
	a.sys.Loads = append(a.sys.Loads, l)
	a.refs = append(a.refs, busRef{fmt.Sprintf("load %q", l.LoadID), l.BusID})
}

func (a *assembler) addShunt(s Shunt) {
	a.sys.Shunts = append(a.sys.Shunts, s)
	a.refs = append(a.refs, busRef{fmt.Sprintf("shunt %q", s.ShuntID), s.BusID})
}

func (a *assembler) addGenerator(g Generator) {
	a.sys.Generators = append(a.sys.Generators, g)
	a.refs = append(a.refs, busRef{fmt.Sprintf("generator %q", g.GenID), g.BusID})
}

func (a *assembler) addBranch(b Branch) {
	a.sys.Branches = append(a.sys.Branches, b)
	el := fmt.Sprintf("branch %d-%d circuit %q", b.FromBus, b.ToBus, b.CircuitID)
	a.refs = append(a.refs, busRef{el, b.FromBus}, busRef{el, b.ToBus})
}

func (a *assembler) addGeneratorCost(c GeneratorCost) {
	a.sys.GeneratorCosts = append(a.sys.GeneratorCosts, c)
}

func (a *assembler) finalize() (*System, error) {
	for _, ref := range a.refs {
		if _, ok := a.busLine[ref.busID]; !ok {
			return nil, &DanglingReferenceError{Element: ref.element, BusID: ref.busID}
		}
	}
	return &a.sys, nil
}

// grid/rawfields.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"strconv"
	"strings"
)

// tokenize splits one physical line of a RAW file into its comma-separated
// field tokens plus any trailing inline comment. Commas inside single- or
// double-quoted substrings do not split; quotes are stripped from the
// tokens. A '/' outside quotes at the start of the line or preceded by a
// space or comma begins a comment running to end of line. Tokenization
// never fails; malformed quoting yields best-effort token boundaries that
// downstream type coercion rejects.
func tokenize(line string) (fields []string, comment string) {
	var quote byte
	var cur strings.Builder
	seenAny := false

	push := func() {
		fields = append(fields, strings.TrimSpace(cur.String()))
		cur.Reset()
	}

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteByte(ch)
			}
		case ch == '\'' || ch == '"':
			quote = ch
			seenAny = true
		case ch == ',':
			push()
			seenAny = true
		case ch == '/':
			prev := byte(' ')
			if i > 0 {
				prev = line[i-1]
			}
			if prev == ' ' || prev == '\t' || prev == ',' {
				comment = strings.TrimSpace(line[i+1:])
				if s := strings.TrimSpace(cur.String()); s != "" || len(fields) > 0 {
					push()
				}
				if !seenAny && len(fields) == 1 && fields[0] == "" {
					fields = nil
				}
				return fields, comment
			}
			cur.WriteByte(ch)
		default:
			cur.WriteByte(ch)
			if !(ch == ' ' || ch == '\t') {
				seenAny = true
			}
		}
	}

	if s := strings.TrimSpace(cur.String()); s != "" || len(fields) > 0 {
		push()
	}
	if !seenAny {
		return nil, comment
	}
	return fields, comment
}

// fieldRec wraps one record's tokens for typed positional access. Absent
// or blank optional fields substitute the default the record parser
// supplies; a token that cannot be coerced is a MalformedFieldError
// carrying the 1-based field position.
type fieldRec struct {
	section string
	line    int
	toks    []string
}

func (f fieldRec) present(i int) bool {
	return i >= 0 && i < len(f.toks) && f.toks[i] != ""
}

func (f fieldRec) malformed(i int, want string) error {
	return &MalformedFieldError{Section: f.section, Line: f.line, Field: i + 1,
		Token: f.toks[i], Want: want}
}

func (f fieldRec) Int(i int, def int) (int, error) {
	if !f.present(i) {
		return def, nil
	}
	v, err := strconv.Atoi(f.toks[i])
	if err != nil {
		// Some writers emit integer columns as "1.0".
		if fv, ferr := strconv.ParseFloat(f.toks[i], 64); ferr == nil && fv == float64(int(fv)) {
			return int(fv), nil
		}
		return 0, f.malformed(i, "integer")
	}
	return v, nil
}

func (f fieldRec) Float(i int, def float64) (float64, error) {
	if !f.present(i) {
		return def, nil
	}
	v, err := strconv.ParseFloat(f.toks[i], 64)
	if err != nil {
		return 0, f.malformed(i, "number")
	}
	return v, nil
}

func (f fieldRec) Str(i int, def string) string {
	if !f.present(i) {
		return def
	}
	return f.toks[i]
}

// Status decodes a bounded in-service code: only 0 and 1 are accepted.
func (f fieldRec) Status(i int, def Status) (Status, error) {
	v, err := f.Int(i, int(def))
	if err != nil {
		return 0, err
	}
	if v != 0 && v != 1 {
		return 0, f.malformed(i, "status code (0 or 1)")
	}
	return Status(v), nil
}

// BusType decodes the bounded IDE code: only 1 through 4 are accepted.
func (f fieldRec) BusType(i int) (BusType, error) {
	v, err := f.Int(i, int(BusPQ))
	if err != nil {
		return 0, err
	}
	t, ok := BusTypeFromCode(v)
	if !ok {
		return 0, f.malformed(i, "bus type code (1-4)")
	}
	return t, nil
}

// Field layouts, one per dialect. The two dialects disagree on field
// counts and positions for some record types: the short (sentinel)
// dialect carries bus shunt admittance on the bus record itself and has
// no branch name field, while the long (marker) dialect moves shunts to
// the fixed-shunt section and inserts a descriptive name into the branch
// record.

type busLayout struct {
	name, baseKV, ide      int
	gl, bl                 int // -1 when shunts live in the fixed-shunt section
	area, zone, vmag, vang int
}

type branchLayout struct {
	ckt, name           int // name == -1 in the short dialect
	r, x, b             int
	rateA, rateB, rateC int
	status              int
}

type xfrmLayout struct {
	k, ckt, name, status int // line 1; name == -1 in the short dialect
}

var busLayouts = map[rawDialect]busLayout{
	dialectSentinel: {name: 1, baseKV: 2, ide: 3, gl: 4, bl: 5, area: 6, zone: 7, vmag: 8, vang: 9},
	dialectMarker:   {name: 1, baseKV: 2, ide: 3, gl: -1, bl: -1, area: 4, zone: 5, vmag: 7, vang: 8},
}

var branchLayouts = map[rawDialect]branchLayout{
	dialectSentinel: {ckt: 2, name: -1, r: 3, x: 4, b: 5, rateA: 6, rateB: 7, rateC: 8, status: 13},
	dialectMarker:   {ckt: 2, name: 3, r: 4, x: 5, b: 6, rateA: 7, rateB: 8, rateC: 9, status: 14},
}

var xfrmLayouts = map[rawDialect]xfrmLayout{
	dialectSentinel: {k: 2, ckt: 3, name: -1, status: 10},
	dialectMarker:   {k: 2, ckt: 3, name: 10, status: 11},
}

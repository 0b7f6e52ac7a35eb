// grid/raw_test.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const nineBusRAW = ` 0, 100.00, 33, 0, 0, 60.00  / August 2026
WSCC 9-BUS TEST CASE
PSS(R)E 33 RAW
1,'BUS1    ', 16.500, 3, 1, 1, 1, 1.04000,  0.00000
2,'BUS2    ', 18.000, 2, 1, 1, 1, 1.02500,  9.28000
3,'BUS3    ', 13.800, 2, 1, 1, 1, 1.02500,  4.66480
4,'BUS4    ',230.000, 1, 1, 1, 1, 1.02580, -2.21680
5,'BUS5    ',230.000, 1, 1, 1, 1, 0.99563, -3.98880
6,'BUS6    ',230.000, 1, 1, 1, 1, 1.01270, -3.68740
7,'BUS7    ',230.000, 1, 1, 1, 1, 1.02580,  3.71970
8,'BUS8    ',230.000, 1, 1, 1, 1, 1.01590,  0.72754
9,'BUS9    ',230.000, 1, 1, 1, 1, 1.03240,  1.96670
0 / END OF BUS DATA, BEGIN LOAD DATA
5,'1 ',1,1,1, 125.000, 50.000
6,'1 ',1,1,1,  90.000, 30.000
8,'1 ',1,1,1, 100.000, 35.000
0 / END OF LOAD DATA, BEGIN FIXED SHUNT DATA
0 / END OF FIXED SHUNT DATA, BEGIN GENERATOR DATA
1,'1 ',  71.641,  27.046, 300.000,-300.000, 1.04000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
2,'1 ', 163.000,   6.654, 300.000,-300.000, 1.02500, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
3,'1 ',  85.000, -10.860, 300.000,-300.000, 1.02500, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
0 / END OF GENERATOR DATA, BEGIN BRANCH DATA
4,5,'1 ','        ', 0.01000, 0.08500, 0.17600, 250.00, 250.00, 250.00, 0.0, 0.0, 0.0, 0.0, 1
4,6,'1 ','        ', 0.01700, 0.09200, 0.15800, 250.00, 250.00, 250.00, 0.0, 0.0, 0.0, 0.0, 1
5,7,'1 ','        ', 0.03200, 0.16100, 0.30600, 250.00, 250.00, 250.00, 0.0, 0.0, 0.0, 0.0, 1
6,9,'1 ','        ', 0.03900, 0.17000, 0.35800, 150.00, 150.00, 150.00, 0.0, 0.0, 0.0, 0.0, 1
7,8,'1 ','        ', 0.00850, 0.07200, 0.14900, 250.00, 250.00, 250.00, 0.0, 0.0, 0.0, 0.0, 1
8,9,'1 ','        ', 0.01190, 0.10080, 0.20900, 150.00, 150.00, 150.00, 0.0, 0.0, 0.0, 0.0, 1
0 / END OF BRANCH DATA, BEGIN TRANSFORMER DATA
1,4,0,'1 ',1,1,1,0.00000,0.00000,2,'GEN1 XFMR',1
0.00000,0.05760,100.00
1.00000,0.00000,0.000,250.00,250.00,250.00
1.00000,0.00000
2,7,0,'1 ',1,1,1,0.00000,0.00000,2,'GEN2 XFMR',1
0.00000,0.06250,100.00
1.00000,0.00000,0.000,250.00,250.00,250.00
1.00000,0.00000
3,9,0,'1 ',1,1,1,0.00000,0.00000,2,'GEN3 XFMR',1
0.00000,0.05860,100.00
1.00000,0.00000,0.000,250.00,250.00,250.00
1.00000,0.00000
0 / END OF TRANSFORMER DATA, BEGIN AREA DATA
1, 1, 0.000, 10.000,'AREA1       '
0 / END OF AREA DATA, BEGIN SWITCHED SHUNT DATA
0 / END OF SWITCHED SHUNT DATA, BEGIN GNE DATA
Q
`

func TestParseRAWNineBus(t *testing.T) {
	sys, err := ParseRAW(strings.NewReader(nineBusRAW))
	if err != nil {
		t.Fatalf("ParseRAW: %v", err)
	}

	if sys.Name != "WSCC 9-BUS TEST CASE" {
		t.Errorf("name: got %q", sys.Name)
	}
	if sys.BaseMVA != 100 {
		t.Errorf("base MVA: got %g, expected 100", sys.BaseMVA)
	}
	if n := len(sys.Buses); n != 9 {
		t.Errorf("got %d buses, expected 9", n)
	}
	if n := len(sys.Loads); n != 3 {
		t.Errorf("got %d loads, expected 3", n)
	}
	if n := len(sys.Generators); n != 3 {
		t.Errorf("got %d generators, expected 3", n)
	}
	if n := len(sys.Shunts); n != 0 {
		t.Errorf("got %d shunts, expected 0", n)
	}
	if n := len(sys.Branches); n != 9 {
		t.Errorf("got %d branches, expected 9", n)
	}

	if n := len(sys.SlackBuses()); n != 1 {
		t.Errorf("got %d slack buses, expected 1", n)
	}
	bus1, ok := sys.Bus(1)
	if !ok {
		t.Fatal("bus 1 missing")
	}
	if bus1.Name != "BUS1" || bus1.Type != BusSlack || bus1.BaseKV != 16.5 {
		t.Errorf("bus 1: got %+v", bus1)
	}

	var xfmrs int
	for _, b := range sys.Branches {
		if b.IsTransformer {
			xfmrs++
			if b.TapRatio != 1.0 {
				t.Errorf("branch %d-%d: tap %g, expected 1", b.FromBus, b.ToBus, b.TapRatio)
			}
		}
	}
	if xfmrs != 3 {
		t.Errorf("got %d transformers, expected 3", xfmrs)
	}

	pg, _ := sys.TotalGeneration()
	if pg < 319 || pg > 320 {
		t.Errorf("total generation %g MW, expected about 319.6", pg)
	}
	pl, ql := sys.TotalLoad()
	if pl != 315 || ql != 115 {
		t.Errorf("total load %g MW %g MVAr, expected 315/115", pl, ql)
	}
}

const fourteenBusRAW = `0, 100.00  / IEEE 14 bus, old-style records
IEEE 14 BUS TEST CASE
CONVERTED FROM COMMON DATA FORMAT
1,'BUS1    ', 0.0, 3, 0.000,  0.000, 1, 1, 1.06000,  0.00000
2,'BUS2    ', 0.0, 2, 0.000,  0.000, 1, 1, 1.04500, -4.98000
3,'BUS3    ', 0.0, 2, 0.000,  0.000, 1, 1, 1.01000,-12.72000
4,'BUS4    ', 0.0, 1, 0.000,  0.000, 1, 1, 1.01900,-10.33000
5,'BUS5    ', 0.0, 1, 0.000,  0.000, 1, 1, 1.02000, -8.78000
6,'BUS6    ', 0.0, 2, 0.000,  0.000, 1, 1, 1.07000,-14.22000
7,'BUS7    ', 0.0, 1, 0.000,  0.000, 1, 1, 1.06200,-13.37000
8,'BUS8    ', 0.0, 2, 0.000,  0.000, 1, 1, 1.09000,-13.36000
9,'BUS9    ', 0.0, 1, 0.000, 19.000, 1, 1, 1.05600,-14.94000
10,'BUS10   ', 0.0, 1, 0.000,  0.000, 1, 1, 1.05100,-15.10000
11,'BUS11   ', 0.0, 1, 0.000,  0.000, 1, 1, 1.05700,-14.79000
12,'BUS12   ', 0.0, 1, 0.000,  0.000, 1, 1, 1.05500,-15.07000
13,'BUS13   ', 0.0, 1, 0.000,  0.000, 1, 1, 1.05000,-15.16000
14,'BUS14   ', 0.0, 1, 0.000,  0.000, 1, 1, 1.03600,-16.04000
0
2,'1 ',1,1,1,  21.700, 12.700
3,'1 ',1,1,1,  94.200, 19.000
4,'1 ',1,1,1,  47.800, -3.900
5,'1 ',1,1,1,   7.600,  1.600
6,'1 ',1,1,1,  11.200,  7.500
9,'1 ',1,1,1,  29.500, 16.600
10,'1 ',1,1,1,  9.000,  5.800
11,'1 ',1,1,1,  3.500,  1.800
12,'1 ',1,1,1,  6.100,  1.600
13,'1 ',1,1,1, 13.500,  5.800
14,'1 ',1,1,1, 14.900,  5.000
0
0
1,'1 ', 232.400, -16.900,  10.000,   0.000, 1.06000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
2,'1 ',  40.000,  42.400,  50.000, -40.000, 1.04500, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
3,'1 ',   0.000,  23.400,  40.000,   0.000, 1.01000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
6,'1 ',   0.000,  12.200,  24.000,  -6.000, 1.07000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
8,'1 ',   0.000,  17.400,  24.000,  -6.000, 1.09000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
0
1,2,'1 ', 0.01938, 0.05917, 0.05280, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
1,5,'1 ', 0.05403, 0.22304, 0.04920, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
2,3,'1 ', 0.04699, 0.19797, 0.04380, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
2,4,'1 ', 0.05811, 0.17632, 0.03400, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
2,5,'1 ', 0.05695, 0.17388, 0.03460, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
3,4,'1 ', 0.06701, 0.17103, 0.01280, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
4,5,'1 ', 0.01335, 0.04211, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
6,11,'1 ', 0.09498, 0.19890, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
6,12,'1 ', 0.12291, 0.25581, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
6,13,'1 ', 0.06615, 0.13027, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
7,8,'1 ', 0.00000, 0.17615, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
7,9,'1 ', 0.00000, 0.11001, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
9,10,'1 ', 0.03181, 0.08450, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
9,14,'1 ', 0.12711, 0.27038, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
10,11,'1 ', 0.08205, 0.19207, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
12,13,'1 ', 0.22092, 0.19988, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
13,14,'1 ', 0.17093, 0.34802, 0.00000, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 1
0
4,7,0,'1 ',1,1,1,0.0,0.0,2,1
0.00000,0.20912,100.00
0.97800,0.000,0.000,0.00,0.00,0.00
1.00000,0.000
4,9,0,'1 ',1,1,1,0.0,0.0,2,1
0.00000,0.55618,100.00
0.96900,0.000,0.000,0.00,0.00,0.00
1.00000,0.000
5,6,0,'1 ',1,1,1,0.0,0.0,2,1
0.00000,0.25202,100.00
0.93200,0.000,0.000,0.00,0.00,0.00
1.00000,0.000
0
`

func TestParseRAWFourteenBusSentinel(t *testing.T) {
	sys, err := ParseRAW(strings.NewReader(fourteenBusRAW))
	if err != nil {
		t.Fatalf("ParseRAW: %v", err)
	}

	if n := len(sys.Buses); n != 14 {
		t.Errorf("got %d buses, expected 14", n)
	}
	if n := len(sys.Loads); n != 11 {
		t.Errorf("got %d loads, expected 11", n)
	}
	if n := len(sys.Generators); n != 5 {
		t.Errorf("got %d generators, expected 5", n)
	}
	if n := len(sys.Branches); n != 20 {
		t.Errorf("got %d branches, expected 20", n)
	}

	// Old-style bus records carry shunt admittance inline; bus 9 has a
	// 19 MVAr capacitor.
	if n := len(sys.Shunts); n != 1 {
		t.Fatalf("got %d shunts, expected 1", n)
	}
	sh := sys.Shunts[0]
	if sh.BusID != 9 || sh.BPU != 0.19 || sh.GPU != 0 {
		t.Errorf("shunt: got %+v", sh)
	}

	var xfmrs []Branch
	for _, b := range sys.Branches {
		if b.IsTransformer {
			xfmrs = append(xfmrs, b)
		}
	}
	if len(xfmrs) != 3 {
		t.Fatalf("got %d transformers, expected 3", len(xfmrs))
	}
	if xfmrs[2].FromBus != 5 || xfmrs[2].ToBus != 6 || xfmrs[2].TapRatio != 0.932 {
		t.Errorf("5-6 transformer: got %+v", xfmrs[2])
	}
}

// The same system written in the two dialects must parse to identical
// Systems.
func TestParseRAWDialectEquivalence(t *testing.T) {
	sentinel := `0, 100.00
TINY 3 BUS
SECOND TITLE LINE
1,'ONE     ', 138.00, 3, 0.000, 0.000, 1, 1, 1.02000, 0.00000
2,'TWO     ', 138.00, 1, 0.000, 5.000, 1, 1, 0.99000, -3.20000
3,'THREE   ', 138.00, 2, 0.000, 0.000, 1, 1, 1.01000, -1.10000
0
2,'1 ',1,1,1, 40.000, 12.000
0
0
1,'1 ', 52.300, 10.100, 90.000, -60.000, 1.02000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
3,'1 ', 30.000,  5.000, 50.000, -40.000, 1.01000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
0
1,2,'1 ', 0.01938, 0.05917, 0.05280, 120.00, 120.00, 120.00, 1.0, 0.0, 0.0, 0.0, 1
0
2,3,0,'1 ',1,1,1,0.0,0.0,2,1
0.00000,0.25202,100.00
0.93200,0.000,0.000,65.00,65.00,65.00
1.00000,0.000
0
`
	marker := `0, 100.00, 33  / tiny
TINY 3 BUS
SECOND TITLE LINE
1,'ONE     ', 138.00, 3, 1, 1, 1, 1.02000, 0.00000
2,'TWO     ', 138.00, 1, 1, 1, 1, 0.99000, -3.20000
3,'THREE   ', 138.00, 2, 1, 1, 1, 1.01000, -1.10000
0 / END OF BUS DATA, BEGIN LOAD DATA
2,'1 ',1,1,1, 40.000, 12.000
0 / END OF LOAD DATA, BEGIN FIXED SHUNT DATA
2,'1 ',1, 0.000, 5.000
0 / END OF FIXED SHUNT DATA, BEGIN GENERATOR DATA
1,'1 ', 52.300, 10.100, 90.000, -60.000, 1.02000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
3,'1 ', 30.000,  5.000, 50.000, -40.000, 1.01000, 0, 100.000, 0.0, 0.1, 0.0, 0.0, 1.0, 1
0 / END OF GENERATOR DATA, BEGIN BRANCH DATA
1,2,'1 ','        ', 0.01938, 0.05917, 0.05280, 120.00, 120.00, 120.00, 0.0, 0.0, 0.0, 0.0, 1
0 / END OF BRANCH DATA, BEGIN TRANSFORMER DATA
2,3,0,'1 ',1,1,1,0.0,0.0,2,'        ',1
0.00000,0.25202,100.00
0.93200,0.000,0.000,65.00,65.00,65.00
1.00000,0.000
0 / END OF TRANSFORMER DATA, BEGIN AREA DATA
Q
`
	sysA, err := ParseRAW(strings.NewReader(sentinel))
	if err != nil {
		t.Fatalf("sentinel dialect: %v", err)
	}
	sysB, err := ParseRAW(strings.NewReader(marker))
	if err != nil {
		t.Fatalf("marker dialect: %v", err)
	}
	if diff := cmp.Diff(sysA, sysB); diff != "" {
		t.Errorf("dialects disagree (-sentinel +marker):\n%s", diff)
	}
}

func TestParseRAWIdempotent(t *testing.T) {
	first, err := ParseRAW(strings.NewReader(nineBusRAW))
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseRAW(strings.NewReader(nineBusRAW))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated parse differs:\n%s", diff)
	}
}

func TestParseRAWDuplicateBus(t *testing.T) {
	input := `0, 100.0
DUP
X
1,'B1',138,1,0,0,1,1,1.0,0.0
1,'B1',138,1,0,0,1,1,1.0,0.0
0
`
	_, err := ParseRAW(strings.NewReader(input))
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("got %v, expected DuplicateKeyError", err)
	}
	if dup.BusID != 1 || dup.Line != 5 {
		t.Errorf("got %+v, expected bus 1 at line 5", dup)
	}
}

func TestParseRAWDanglingReference(t *testing.T) {
	input := `0, 100.0
DANGLE
X
1,'B1',138,3,0,0,1,1,1.0,0.0
0
99,'1 ',1,1,1,10.0,5.0
0
0
0
0
0
`
	_, err := ParseRAW(strings.NewReader(input))
	var dangle *DanglingReferenceError
	if !errors.As(err, &dangle) {
		t.Fatalf("got %v, expected DanglingReferenceError", err)
	}
	if dangle.BusID != 99 {
		t.Errorf("got bus %d, expected 99", dangle.BusID)
	}
}

func TestParseRAWMalformedField(t *testing.T) {
	input := `0, 100.0
BAD
X
1,'B1',not-a-number,3,0,0,1,1,1.0,0.0
0
`
	_, err := ParseRAW(strings.NewReader(input))
	var mf *MalformedFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("got %v, expected MalformedFieldError", err)
	}
	if mf.Section != "bus data" || mf.Line != 4 || mf.Field != 3 {
		t.Errorf("got %+v, expected bus data line 4 field 3", mf)
	}
}

func TestParseRAWInconsistentReactiveLimits(t *testing.T) {
	input := `0, 100.0
QLIM
X
1,'B1',138,3,0,0,1,1,1.0,0.0
0
0
0
1,'1 ', 50.0, 0.0, -10.0, 10.0, 1.0, 0, 100.0, 0.0, 0.1, 0.0, 0.0, 1.0, 1
0
`
	_, err := ParseRAW(strings.NewReader(input))
	var mr *MalformedRecordError
	if !errors.As(err, &mr) {
		t.Fatalf("got %v, expected MalformedRecordError", err)
	}
}

func TestParseRAWTruncated(t *testing.T) {
	input := `0, 100.0
TRUNC
X
1,'B1',138,3,0,0,1,1,1.0,0.0
`
	_, err := ParseRAW(strings.NewReader(input))
	var trunc *TruncatedInputError
	if !errors.As(err, &trunc) {
		t.Fatalf("got %v, expected TruncatedInputError", err)
	}
	if trunc.Section != "bus data" {
		t.Errorf("got section %q, expected bus data", trunc.Section)
	}
}

func TestParseRAWUnknownSection(t *testing.T) {
	input := `0, 100.0, 33
UNK
X
1,'B1',138,3,1,1,1,1.0,0.0
0 / END OF BUS DATA, BEGIN FROBNICATOR DATA
Q
`
	_, err := ParseRAW(strings.NewReader(input))
	var unk *UnknownSectionError
	if !errors.As(err, &unk) {
		t.Fatalf("got %v, expected UnknownSectionError", err)
	}
	if unk.Name != "FROBNICATOR" {
		t.Errorf("got %q, expected FROBNICATOR", unk.Name)
	}
}

// A marker-dialect file may jump straight into sections we only skip;
// their records must not be decoded or rejected.
func TestParseRAWSkipsUnsupportedSections(t *testing.T) {
	input := `0, 100.0, 33
SKIPS
X
1,'B1',138,3,1,1,1,1.0,0.0
2,'B2',138,1,1,1,1,1.0,0.0
0 / END OF BUS DATA, BEGIN SWITCHED SHUNT DATA
1,1,1,1,1.0,1.0,0,100.0,'        ',1.75,0
0 / END OF SWITCHED SHUNT DATA, BEGIN FACTS DEVICE DATA
'FACTS-1',1,2,0,1,40.0,9999.0
0 / END OF FACTS DEVICE DATA, BEGIN SUBSTATION DATA
Q
`
	sys, err := ParseRAW(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRAW: %v", err)
	}
	if n := len(sys.Buses); n != 2 {
		t.Errorf("got %d buses, expected 2", n)
	}
	if len(sys.Shunts) != 0 || len(sys.Branches) != 0 {
		t.Errorf("skip-parsed sections leaked elements: %+v", sys)
	}
}

// Three-winding transformer records (nonzero K) span five lines and are
// recognized but not decoded.
func TestParseRAWThreeWindingSkipped(t *testing.T) {
	input := `0, 100.0
3W
X
1,'B1',138,3,0,0,1,1,1.0,0.0
2,'B2',138,1,0,0,1,1,1.0,0.0
3,'B3',69,1,0,0,1,1,1.0,0.0
0
0
0
0
0
1,2,3,'1 ',1,1,1,0.0,0.0,2,1
0.0,0.1,100.0,0.0,0.1,100.0,0.0,0.1,100.0,1.0,0.0
1.0,0.0,0.0,100.0,100.0,100.0
1.0,0.0,0.0,100.0,100.0,100.0
1.0,0.0,0.0,100.0,100.0,100.0
1,2,0,'1 ',1,1,1,0.0,0.0,2,1
0.00000,0.15,100.00
1.02500,0.000,0.000,100.00,100.00,100.00
1.00000,0.000
0
`
	sys, err := ParseRAW(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseRAW: %v", err)
	}
	if n := len(sys.Branches); n != 1 {
		t.Fatalf("got %d branches, expected 1", n)
	}
	b := sys.Branches[0]
	if !b.IsTransformer || b.TapRatio != 1.025 {
		t.Errorf("two-winding transformer: got %+v", b)
	}
}

func TestTokenize(t *testing.T) {
	for _, tc := range []struct {
		line    string
		fields  []string
		comment string
	}{
		{"1,2,3", []string{"1", "2", "3"}, ""},
		{"1, 'A, B', 3", []string{"1", "A, B", "3"}, ""},
		{`1, "QUOTED/SLASH", 3`, []string{"1", "QUOTED/SLASH", "3"}, ""},
		{"0 / END OF BUS DATA, BEGIN LOAD DATA", []string{"0"}, "END OF BUS DATA, BEGIN LOAD DATA"},
		{"/ pure comment", nil, "pure comment"},
		{"", nil, ""},
		{"   ", nil, ""},
		{"1,,3", []string{"1", "", "3"}, ""},
	} {
		fields, comment := tokenize(tc.line)
		if diff := cmp.Diff(tc.fields, fields); diff != "" {
			t.Errorf("%q: fields differ:\n%s", tc.line, diff)
		}
		if comment != tc.comment {
			t.Errorf("%q: comment %q, expected %q", tc.line, comment, tc.comment)
		}
	}
}

// cmd/gridcase/report.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/gridwork/gridcase/grid"
	"github.com/gridwork/gridcase/util"
)

type caseSummary struct {
	Name         string  `json:"name,omitempty"`
	BaseMVA      float64 `json:"base_mva"`
	Buses        int     `json:"buses"`
	Loads        int     `json:"loads"`
	Shunts       int     `json:"shunts"`
	Generators   int     `json:"generators"`
	Branches     int     `json:"branches"`
	Transformers int     `json:"transformers"`
	GenerationMW float64 `json:"generation_mw"`
	LoadMW       float64 `json:"load_mw"`
	VoltageMinPU float64 `json:"voltage_min_pu"`
	VoltageMaxPU float64 `json:"voltage_max_pu"`
}

func summarize(sys *grid.System) caseSummary {
	pg, _ := sys.TotalGeneration()
	pl, _ := sys.TotalLoad()
	lo, hi := sys.VoltageRange()
	nx := len(util.FilterSlice(sys.Branches, func(b grid.Branch) bool { return b.IsTransformer }))

	return caseSummary{
		Name:         sys.Name,
		BaseMVA:      sys.BaseMVA,
		Buses:        len(sys.Buses),
		Loads:        len(sys.Loads),
		Shunts:       len(sys.Shunts),
		Generators:   len(sys.Generators),
		Branches:     len(sys.Branches),
		Transformers: nx,
		GenerationMW: pg,
		LoadMW:       pl,
		VoltageMinPU: lo,
		VoltageMaxPU: hi,
	}
}

func reportSummary(w io.Writer, sys *grid.System, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summarize(sys))
	case "summary":
		_, err := fmt.Fprintln(w, sys.Description())
		return err
	case "table", "csv":
		s := summarize(sys)
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		if s.Name != "" {
			fmt.Fprintf(tw, "Case:\t%s\n", s.Name)
		}
		fmt.Fprintf(tw, "Base MVA:\t%g\n", s.BaseMVA)
		fmt.Fprintf(tw, "Buses:\t%d\n", s.Buses)
		fmt.Fprintf(tw, "Loads:\t%d\n", s.Loads)
		fmt.Fprintf(tw, "Shunts:\t%d\n", s.Shunts)
		fmt.Fprintf(tw, "Generators:\t%d\n", s.Generators)
		fmt.Fprintf(tw, "Branches:\t%d (%d transformers)\n", s.Branches, s.Transformers)
		fmt.Fprintf(tw, "Generation:\t%.1f MW\n", s.GenerationMW)
		fmt.Fprintf(tw, "Load:\t%.1f MW\n", s.LoadMW)
		fmt.Fprintf(tw, "Voltage range:\t%.4f - %.4f pu\n", s.VoltageMinPU, s.VoltageMaxPU)
		return tw.Flush()
	default:
		return fmt.Errorf("%s: unknown format", format)
	}
}

// reportElements dumps one element table from the system.
func reportElements(w io.Writer, sys *grid.System, what, format string) error {
	var header []string
	var rows [][]string
	var obj any

	switch what {
	case "bus":
		header = []string{"id", "name", "type", "base_kv", "vm_pu", "va_deg", "area", "zone"}
		rows = util.MapSlice(sys.Buses, func(b grid.Bus) []string {
			return []string{strconv.Itoa(b.ID), b.Name, b.Type.String(), fstr(b.BaseKV),
				fstr(b.VMagnitude), fstr(b.VAngleDeg), strconv.Itoa(b.Area), strconv.Itoa(b.Zone)}
		})
		obj = sys.Buses
	case "load":
		header = []string{"bus", "id", "p_mw", "q_mvar", "status"}
		rows = util.MapSlice(sys.Loads, func(l grid.Load) []string {
			return []string{strconv.Itoa(l.BusID), l.LoadID, fstr(l.PMW), fstr(l.QMVAr),
				l.Status.String()}
		})
		obj = sys.Loads
	case "shunt":
		header = []string{"bus", "id", "g_pu", "b_pu", "status"}
		rows = util.MapSlice(sys.Shunts, func(s grid.Shunt) []string {
			return []string{strconv.Itoa(s.BusID), s.ShuntID, fstr(s.GPU), fstr(s.BPU),
				s.Status.String()}
		})
		obj = sys.Shunts
	case "gen":
		header = []string{"bus", "id", "p_mw", "q_mvar", "qmax", "qmin", "vset", "mbase", "status"}
		rows = util.MapSlice(sys.Generators, func(g grid.Generator) []string {
			return []string{strconv.Itoa(g.BusID), g.GenID, fstr(g.PMW), fstr(g.QMVAr),
				fstr(g.QMaxMVAr), fstr(g.QMinMVAr), fstr(g.VSetpoint), fstr(g.MBase),
				g.Status.String()}
		})
		obj = sys.Generators
	case "branch":
		header = []string{"from", "to", "ckt", "r_pu", "x_pu", "b_pu", "rate_mva", "tap", "shift_deg", "xfmr", "status"}
		rows = util.MapSlice(sys.Branches, func(b grid.Branch) []string {
			return []string{strconv.Itoa(b.FromBus), strconv.Itoa(b.ToBus), b.CircuitID,
				fstr(b.RPU), fstr(b.XPU), fstr(b.BPU), fstr(b.RateMVA), fstr(b.TapRatio),
				fstr(b.ShiftAngleDeg), util.Select(b.IsTransformer, "yes", "no"),
				b.Status.String()}
		})
		obj = sys.Branches
	case "cost":
		header = []string{"gen", "model", "startup", "shutdown", "coefficients"}
		rows = util.MapSlice(sys.GeneratorCosts, func(c grid.GeneratorCost) []string {
			return []string{strconv.Itoa(c.GenIndex), strconv.Itoa(int(c.Model)),
				fstr(c.StartupUSD), fstr(c.ShutdownUSD), fmt.Sprint(c.Coefficients)}
		})
		obj = sys.GeneratorCosts
	default:
		return fmt.Errorf("%s: unknown element table", what)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(obj)
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	case "table", "summary":
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		for i, h := range header {
			fmt.Fprint(tw, util.Select(i > 0, "\t", ""), h)
		}
		fmt.Fprintln(tw)
		for _, row := range rows {
			for i, cell := range row {
				fmt.Fprint(tw, util.Select(i > 0, "\t", ""), cell)
			}
			fmt.Fprintln(tw)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("%s: unknown format", format)
	}
}

type violation struct {
	Element  string        `json:"element"`
	Status   string        `json:"status"`
	Value    float64       `json:"value"`
	Severity grid.Severity `json:"-"`
	Sev      string        `json:"severity"`
}

// checkLimits runs the static limit checks: in-service bus voltages
// against the voltage band, generator reactive output against its
// capability, and generator apparent power against its machine base.
func checkLimits(sys *grid.System, limits grid.Limits) []violation {
	var vs []violation

	for _, b := range sys.Buses {
		if b.Type == grid.BusIsolated {
			continue
		}
		if st := limits.ClassifyVoltage(b.VMagnitude); st.IsViolation() {
			vs = append(vs, violation{
				Element:  fmt.Sprintf("bus %d", b.ID),
				Status:   st.String(),
				Value:    b.VMagnitude,
				Severity: st.Severity(),
			})
		}
	}

	for _, g := range sys.Generators {
		if g.Status != grid.InService {
			continue
		}
		if g.QMVAr > g.QMaxMVAr || g.QMVAr < g.QMinMVAr {
			vs = append(vs, violation{
				Element:  fmt.Sprintf("generator %q at bus %d", g.GenID, g.BusID),
				Status:   "reactive output outside capability",
				Value:    g.QMVAr,
				Severity: grid.SeverityWarning,
			})
		}
		if g.MBase > 0 {
			pct := 100 * math.Hypot(g.PMW, g.QMVAr) / g.MBase
			if st := limits.ClassifyLoading(pct); st.IsOverload() {
				vs = append(vs, violation{
					Element:  fmt.Sprintf("generator %q at bus %d", g.GenID, g.BusID),
					Status:   st.String(),
					Value:    pct,
					Severity: st.Severity(),
				})
			}
		}
	}

	for i := range vs {
		vs[i].Sev = vs[i].Severity.String()
	}
	return vs
}

func reportValidation(w io.Writer, sys *grid.System, limits grid.Limits, format string) (int, error) {
	vs := checkLimits(sys, limits)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if vs == nil {
			vs = []violation{}
		}
		return len(vs), enc.Encode(vs)
	case "summary":
		_, err := fmt.Fprintf(w, "%d violations\n", len(vs))
		return len(vs), err
	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"element", "status", "value", "severity"}); err != nil {
			return len(vs), err
		}
		for _, v := range vs {
			if err := cw.Write([]string{v.Element, v.Status, fstr(v.Value), v.Sev}); err != nil {
				return len(vs), err
			}
		}
		cw.Flush()
		return len(vs), cw.Error()
	case "table":
		if len(vs) == 0 {
			_, err := fmt.Fprintln(w, "no violations")
			return 0, err
		}
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "element\tstatus\tvalue\tseverity")
		for _, v := range vs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Element, v.Status, fstr(v.Value), v.Sev)
		}
		return len(vs), tw.Flush()
	default:
		return 0, fmt.Errorf("%s: unknown format", format)
	}
}

func fstr(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

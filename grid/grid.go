// grid/grid.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package grid provides the in-memory model for power-flow cases along
// with parsers for the file formats that carry them: PSS/E-style RAW
// record files (both the sentinel-terminated and the marker-delimited
// dialects) and MATPOWER .m case files.
package grid

import (
	"fmt"
	"math"
)

// BusType classifies a bus for power-flow purposes. The codes follow the
// file formats' IDE column.
type BusType int

const (
	BusPQ       BusType = 1 // load bus: P and Q specified
	BusPV       BusType = 2 // generator bus: P and V specified
	BusSlack    BusType = 3 // reference bus: V and angle specified
	BusIsolated BusType = 4 // disconnected from the network
)

func (t BusType) String() string {
	switch t {
	case BusPQ:
		return "PQ (Load)"
	case BusPV:
		return "PV (Generator)"
	case BusSlack:
		return "Slack (Reference)"
	case BusIsolated:
		return "Isolated"
	default:
		return fmt.Sprintf("Unknown (%d)", int(t))
	}
}

// BusTypeFromCode converts an integer IDE code to a BusType; only 1-4 are
// accepted.
func BusTypeFromCode(code int) (BusType, bool) {
	if code >= 1 && code <= 4 {
		return BusType(code), true
	}
	return 0, false
}

// HasGeneration reports whether buses of this type source power (PV or
// slack).
func (t BusType) HasGeneration() bool {
	return t == BusPV || t == BusSlack
}

// Status is the in-service flag carried by loads, shunts, generators, and
// branches.
type Status int

const (
	OutOfService Status = 0
	InService    Status = 1
)

func (s Status) String() string {
	if s == InService {
		return "in-service"
	}
	return "out-of-service"
}

// Bus is a network node. VMagnitude and VAngleDeg hold the file's snapshot
// (or flat-start) values; the parser records them but does not validate
// them.
type Bus struct {
	ID         int
	Name       string
	Type       BusType
	BaseKV     float64 // nominal voltage base [kV]
	VMagnitude float64 // voltage magnitude [p.u.]
	VAngleDeg  float64 // voltage angle [degrees]
	Area       int
	Zone       int
}

// Load is a constant-power consumer attached to a bus. Multiple loads may
// share a bus, disambiguated by LoadID.
type Load struct {
	BusID  int
	LoadID string
	PMW    float64 // active power demand [MW]
	QMVAr  float64 // reactive power demand [MVAr]
	Status Status
}

// ApparentPowerMVA returns |S| = sqrt(P^2 + Q^2).
func (l Load) ApparentPowerMVA() float64 {
	return math.Hypot(l.PMW, l.QMVAr)
}

// PowerFactor returns P/|S|, or 1 when the load draws nothing.
func (l Load) PowerFactor() float64 {
	if s := l.ApparentPowerMVA(); s != 0 {
		return l.PMW / s
	}
	return 1
}

// Shunt is a fixed shunt device (capacitor or reactor). Susceptance is
// positive for capacitors.
type Shunt struct {
	BusID   int
	ShuntID string
	GPU     float64 // conductance [p.u.] on system base
	BPU     float64 // susceptance [p.u.] on system base
	Status  Status
}

// Generator is a generation unit attached to a bus.
type Generator struct {
	BusID     int
	GenID     string
	PMW       float64 // active power output [MW]
	QMVAr     float64 // reactive power output [MVAr]
	QMaxMVAr  float64 // upper reactive limit [MVAr]
	QMinMVAr  float64 // lower reactive limit [MVAr]
	VSetpoint float64 // voltage setpoint [p.u.]
	MBase     float64 // machine base [MVA]
	Status    Status
}

// Branch connects two buses; it covers both transmission lines and
// two-winding transformers. For lines TapRatio is 1 and ShiftAngleDeg 0;
// transformer records set IsTransformer and fill both.
type Branch struct {
	FromBus       int
	ToBus         int
	CircuitID     string
	Name          string
	RPU           float64 // series resistance [p.u.] on system base
	XPU           float64 // series reactance [p.u.] on system base
	BPU           float64 // total charging susceptance [p.u.]
	RateMVA       float64 // continuous thermal rating [MVA]; 0 = unlimited
	RateShortMVA  float64
	RateEmergMVA  float64
	TapRatio      float64
	ShiftAngleDeg float64
	Status        Status
	IsTransformer bool
}

// CostModel selects the form of a generator cost function.
type CostModel int

const (
	CostPiecewiseLinear CostModel = 1
	CostPolynomial      CostModel = 2
)

// GeneratorCost holds a cost function for the generator at the same index
// in System.Generators. Polynomial coefficients are ordered high power
// first; piecewise-linear coefficients alternate (MW, $/hr) breakpoints.
type GeneratorCost struct {
	GenIndex     int
	Model        CostModel
	StartupUSD   float64
	ShutdownUSD  float64
	Coefficients []float64
}

// Evaluate returns the cost in $/hr at the given output. Only polynomial
// models can be evaluated.
func (c GeneratorCost) Evaluate(pMW float64) (float64, error) {
	if c.Model != CostPolynomial {
		return 0, fmt.Errorf("cost model %d is not polynomial", c.Model)
	}
	var cost float64
	for _, coeff := range c.Coefficients { // Horner
		cost = cost*pMW + coeff
	}
	return cost, nil
}

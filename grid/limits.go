// grid/limits.go
// Copyright(c) 2024-2026 gridcase contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package grid

import "fmt"

// Limits holds the operating thresholds used when classifying bus
// voltages and branch loadings. It is passed explicitly to whatever needs
// it; there is no package-level default beyond the NormalLimits
// constructor.
type Limits struct {
	VoltageMinPU      float64 // lower normal voltage bound [p.u.]
	VoltageMaxPU      float64 // upper normal voltage bound [p.u.]
	VoltageCriticalPU float64 // margin beyond the bounds for critical classification
	ThermalLimitPct   float64 // branch loading limit [%]
	ThermalHeavyPct   float64
	ThermalLightPct   float64
}

func NormalLimits() Limits {
	return Limits{
		VoltageMinPU:      0.95,
		VoltageMaxPU:      1.05,
		VoltageCriticalPU: 0.05,
		ThermalLimitPct:   100,
		ThermalHeavyPct:   80,
		ThermalLightPct:   50,
	}
}

// EmergencyLimits relaxes the bounds for post-contingency operation.
func EmergencyLimits() Limits {
	l := NormalLimits()
	l.VoltageMinPU = 0.90
	l.VoltageMaxPU = 1.10
	l.ThermalLimitPct = 120
	l.ThermalHeavyPct = 100
	return l
}

// StrictLimits tightens the bounds for conservative operation.
func StrictLimits() Limits {
	l := NormalLimits()
	l.VoltageMinPU = 0.97
	l.VoltageMaxPU = 1.03
	l.ThermalLimitPct = 80
	l.ThermalHeavyPct = 60
	return l
}

// Check validates internal consistency.
func (l Limits) Check() error {
	if l.VoltageMinPU <= 0 {
		return fmt.Errorf("voltage minimum must be positive, got %g", l.VoltageMinPU)
	}
	if l.VoltageMaxPU <= l.VoltageMinPU {
		return fmt.Errorf("voltage maximum %g must exceed minimum %g", l.VoltageMaxPU, l.VoltageMinPU)
	}
	if l.VoltageCriticalPU < 0 {
		return fmt.Errorf("voltage critical margin must be non-negative, got %g", l.VoltageCriticalPU)
	}
	if !(0 < l.ThermalLightPct && l.ThermalLightPct < l.ThermalHeavyPct && l.ThermalHeavyPct < l.ThermalLimitPct) {
		return fmt.Errorf("thermal thresholds must satisfy 0 < light < heavy < limit, got %g/%g/%g",
			l.ThermalLightPct, l.ThermalHeavyPct, l.ThermalLimitPct)
	}
	return nil
}

// Severity ranks a finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

// VoltageStatus classifies a bus voltage magnitude against Limits.
type VoltageStatus int

const (
	VoltageCriticalLow VoltageStatus = iota
	VoltageLow
	VoltageNormal
	VoltageHigh
	VoltageCriticalHigh
)

func (v VoltageStatus) String() string {
	switch v {
	case VoltageCriticalLow:
		return "CRITICAL_LOW"
	case VoltageLow:
		return "LOW"
	case VoltageNormal:
		return "NORMAL"
	case VoltageHigh:
		return "HIGH"
	default:
		return "CRITICAL_HIGH"
	}
}

// ClassifyVoltage buckets a per-unit voltage magnitude.
func (l Limits) ClassifyVoltage(vPU float64) VoltageStatus {
	switch {
	case vPU < l.VoltageMinPU-l.VoltageCriticalPU:
		return VoltageCriticalLow
	case vPU < l.VoltageMinPU:
		return VoltageLow
	case vPU <= l.VoltageMaxPU:
		return VoltageNormal
	case vPU <= l.VoltageMaxPU+l.VoltageCriticalPU:
		return VoltageHigh
	default:
		return VoltageCriticalHigh
	}
}

func (v VoltageStatus) IsViolation() bool { return v != VoltageNormal }

func (v VoltageStatus) Severity() Severity {
	switch v {
	case VoltageNormal:
		return SeverityInfo
	case VoltageLow, VoltageHigh:
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

// LoadingStatus classifies branch thermal loading as a percentage of the
// branch rating.
type LoadingStatus int

const (
	LoadingLight LoadingStatus = iota
	LoadingNormal
	LoadingHeavy
	LoadingOverload
)

func (s LoadingStatus) String() string {
	switch s {
	case LoadingLight:
		return "LIGHT"
	case LoadingNormal:
		return "NORMAL"
	case LoadingHeavy:
		return "HEAVY"
	default:
		return "OVERLOAD"
	}
}

func (l Limits) ClassifyLoading(pct float64) LoadingStatus {
	switch {
	case pct < l.ThermalLightPct:
		return LoadingLight
	case pct < l.ThermalHeavyPct:
		return LoadingNormal
	case pct < l.ThermalLimitPct:
		return LoadingHeavy
	default:
		return LoadingOverload
	}
}

func (s LoadingStatus) IsOverload() bool { return s == LoadingOverload }

func (s LoadingStatus) Severity() Severity {
	switch s {
	case LoadingLight, LoadingNormal:
		return SeverityInfo
	case LoadingHeavy:
		return SeverityWarning
	default:
		return SeverityError
	}
}

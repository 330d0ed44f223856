package nec

import (
	"math"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/engine/coordinator"
	"go.trai.ch/watt/internal/plugins"
)

// Warning codes.
const (
	WarnNonStandardVoltage  = plugins.WarnNonStandardVoltage
	WarnServiceAboveCeiling = plugins.WarnServiceAboveCeiling
)

var channels = []coordinator.Channel{
	{Name: ChannelFloorArea, Unit: domain.UnitSquareFoot, Precision: 2},
	{Name: ChannelGeneralLoad, Unit: domain.UnitVoltAmpere, Precision: 0},
	{Name: ChannelGeneralDemand, Unit: domain.UnitVoltAmpere, Precision: 0},
	{Name: ChannelHVACDemand, Unit: domain.UnitVoltAmpere, Precision: 0},
	{Name: ChannelTotalLoad, Unit: domain.UnitVoltAmpere, Precision: 0},
	{Name: ChannelServiceCurrent, Unit: domain.UnitAmpere, Precision: 2},
}

type scope = coordinator.Scope[Inputs]

var pipeline = coordinator.MustPipeline(channels,
	coordinator.Evaluator[Inputs]{
		RuleID:    "floor-area",
		Reference: "1 ft2 = 0.09290304 m2",
		Writes:    []string{ChannelFloorArea},
		Eval:      floorArea,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "general-lighting",
		Reference: "NEC 220.82(B)(1)",
		Writes:    []string{ChannelGeneralLoad},
		Eval:      generalLighting,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "small-appliance-laundry",
		Reference: "NEC 220.82(B)(2)",
		Writes:    []string{ChannelGeneralLoad},
		Eval:      smallAppliance,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "fixed-appliances",
		Reference: "NEC 220.82(B)(3)",
		Writes:    []string{ChannelGeneralLoad},
		Eval: func(s *scope) (coordinator.Outcome, error) {
			v := s.Inputs.ApplianceLoads
			return coordinator.Outcome{
				Formula:       "applianceLoads_VA",
				Inputs:        map[string]float64{"applianceLoads_VA": v},
				Output:        v,
				Unit:          domain.UnitVoltAmpere,
				Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelGeneralLoad, v)},
			}, nil
		},
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "general-demand",
		Reference: "NEC 220.82(B)",
		Writes:    []string{ChannelGeneralDemand},
		Eval:      generalDemand,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "hvac",
		Reference: "NEC 220.82(C)",
		Writes:    []string{ChannelHVACDemand},
		Eval:      hvac,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "total",
		Reference: "NEC 220.82(A)",
		Writes:    []string{ChannelTotalLoad},
		Eval: func(s *scope) (coordinator.Outcome, error) {
			general := s.Channel(ChannelGeneralDemand)
			demand := s.Channel(ChannelHVACDemand)
			total := general + demand
			return coordinator.Outcome{
				Formula: "generalDemand_VA + hvacDemand_VA",
				Inputs: map[string]float64{
					"generalDemand_VA": general,
					"hvacDemand_VA":    demand,
				},
				Output:        total,
				Unit:          domain.UnitVoltAmpere,
				Contributions: []coordinator.Contribution{coordinator.SetTo(ChannelTotalLoad, total)},
			}, nil
		},
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "service-current",
		Reference: "I = P / V",
		Writes:    []string{ChannelServiceCurrent},
		Eval:      serviceCurrent,
	},
)

func floorArea(s *scope) (coordinator.Outcome, error) {
	m2 := *s.Inputs.FloorArea
	ft2 := domain.SquareMetresToSquareFeet(m2)
	return coordinator.Outcome{
		Formula: "floorArea_m2 / squareFootInSquareMetres",
		Inputs: map[string]float64{
			"floorArea_m2":             m2,
			"squareFootInSquareMetres": domain.SquareFootInSquareMetres,
		},
		Output:        ft2,
		Unit:          domain.UnitSquareFoot,
		Contributions: []coordinator.Contribution{coordinator.SetTo(ChannelFloorArea, ft2)},
	}, nil
}

func generalLighting(s *scope) (coordinator.Outcome, error) {
	perFoot, err := s.Value(TableGeneralLighting, "vaPerSquareFoot")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	ft2 := s.Channel(ChannelFloorArea)
	load := perFoot * ft2
	return coordinator.Outcome{
		Formula: "floorArea_ft2 * vaPerSquareFoot",
		Inputs: map[string]float64{
			"floorArea_ft2":   ft2,
			"vaPerSquareFoot": perFoot,
		},
		Output:        load,
		Unit:          domain.UnitVoltAmpere,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelGeneralLoad, load)},
	}, nil
}

func smallAppliance(s *scope) (coordinator.Outcome, error) {
	perCircuit, err := s.Value(TableSmallAppliance, "vaPerCircuit")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	small, err := circuits(s, s.Inputs.SmallApplianceCircuits, "defaultSmallApplianceCircuits")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	laundry, err := circuits(s, s.Inputs.LaundryCircuits, "defaultLaundryCircuits")
	if err != nil {
		return coordinator.Outcome{}, err
	}

	load := (small + laundry) * perCircuit
	return coordinator.Outcome{
		Formula: "(smallApplianceCircuits + laundryCircuits) * vaPerCircuit",
		Inputs: map[string]float64{
			"smallApplianceCircuits": small,
			"laundryCircuits":        laundry,
			"vaPerCircuit":           perCircuit,
		},
		Output:        load,
		Unit:          domain.UnitVoltAmpere,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelGeneralLoad, load)},
	}, nil
}

func circuits(s *scope, n *int, fallbackKey string) (float64, error) {
	if n != nil {
		return float64(*n), nil
	}
	return s.Value(TableSmallAppliance, fallbackKey)
}

func generalDemand(s *scope) (coordinator.Outcome, error) {
	t, err := s.Table(TableGeneralDemand)
	if err != nil {
		return coordinator.Outcome{}, err
	}
	general := s.Channel(ChannelGeneralLoad)
	demand := t.ApplyBrackets(general)
	return coordinator.Outcome{
		Formula:       "brackets(generalLoad_VA)",
		Inputs:        map[string]float64{"generalLoad_VA": general},
		Output:        demand,
		Unit:          domain.UnitVoltAmpere,
		Contributions: []coordinator.Contribution{coordinator.SetTo(ChannelGeneralDemand, demand)},
	}, nil
}

func hvac(s *scope) (coordinator.Outcome, error) {
	acFactor, err := s.Value(TableHVACDemand, "airConditioningFactor")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	heatFactor, err := s.Value(TableHVACDemand, "heatingFactor")
	if err != nil {
		return coordinator.Outcome{}, err
	}

	demand := math.Max(s.Inputs.AirConditioningLoad*acFactor, s.Inputs.HeatingLoad*heatFactor)
	return coordinator.Outcome{
		Formula: "max(airConditioningLoad_VA * airConditioningFactor, heatingLoad_VA * heatingFactor)",
		Inputs: map[string]float64{
			"airConditioningLoad_VA": s.Inputs.AirConditioningLoad,
			"airConditioningFactor":  acFactor,
			"heatingLoad_VA":         s.Inputs.HeatingLoad,
			"heatingFactor":          heatFactor,
		},
		Output:        demand,
		Unit:          domain.UnitVoltAmpere,
		Contributions: []coordinator.Contribution{coordinator.SetTo(ChannelHVACDemand, demand)},
	}, nil
}

func serviceCurrent(s *scope) (coordinator.Outcome, error) {
	t, err := s.Table(TableService)
	if err != nil {
		return coordinator.Outcome{}, err
	}

	voltage := *s.Inputs.SystemVoltage
	total := s.Channel(ChannelTotalLoad)
	current := domain.CurrentFromPower(total, voltage)

	out := coordinator.Outcome{
		Formula: "totalLoad_VA / systemVoltage",
		Inputs: map[string]float64{
			"totalLoad_VA":  total,
			"systemVoltage": voltage,
		},
		Output:        current,
		Unit:          domain.UnitAmpere,
		Contributions: []coordinator.Contribution{coordinator.SetTo(ChannelServiceCurrent, current)},
	}
	warnings, err := plugins.ServiceWarnings(t, s.Jurisdiction, voltage, current)
	if err != nil {
		return coordinator.Outcome{}, err
	}
	out.Warnings = warnings
	return out, nil
}

package cec

import (
	"fmt"
	"math"

	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/engine/coordinator"
	"go.trai.ch/watt/internal/plugins"
)

// Warning codes.
const (
	WarnLivingAreaRange     = "LIVING_AREA_OUT_OF_RANGE"
	WarnNonStandardVoltage  = plugins.WarnNonStandardVoltage
	WarnServiceAboveCeiling = plugins.WarnServiceAboveCeiling
)

var channels = []coordinator.Channel{
	{Name: ChannelLivingArea, Unit: domain.UnitSquareMetre, Precision: 2},
	{Name: ChannelCalculatedLoad, Unit: domain.UnitWatt, Precision: 0},
	{Name: ChannelMinimumLoad, Unit: domain.UnitWatt, Precision: 0},
	{Name: ChannelServiceLoad, Unit: domain.UnitWatt, Precision: 0},
	{Name: ChannelServiceCurrent, Unit: domain.UnitAmpere, Precision: 2},
	{Name: ChannelMinimumService, Unit: domain.UnitAmpere, Precision: 0},
}

type scope = coordinator.Scope[Inputs]

var pipeline = coordinator.MustPipeline(channels,
	coordinator.Evaluator[Inputs]{
		RuleID:    "living-area",
		Reference: "CEC 8-110",
		Writes:    []string{ChannelLivingArea},
		Eval:      livingArea,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "basic-load",
		Reference: "CEC 8-200 1)a)i) and ii)",
		Writes:    []string{ChannelCalculatedLoad},
		Eval:      basicLoad,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "space-heating",
		Reference: "CEC 8-200 1)a)iii), 62-118 3)",
		Writes:    []string{ChannelCalculatedLoad},
		Eval:      spaceHeating,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "air-conditioning",
		Reference: "CEC 8-200 1)a)iv), 8-106 3)",
		Writes:    []string{ChannelCalculatedLoad},
		Eval:      airConditioning,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "range",
		Reference: "CEC 8-200 1)a)v)",
		Writes:    []string{ChannelCalculatedLoad},
		Eval:      rangeLoad,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "water-heaters",
		Reference: "CEC 8-200 1)a)vi)",
		Writes:    []string{ChannelCalculatedLoad},
		Eval: func(s *scope) (coordinator.Outcome, error) {
			return fullLoad("waterHeaterLoad_W", s.Inputs.WaterHeaterLoad), nil
		},
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "evse",
		Reference: "CEC 8-200 1)a)vi.1)",
		Writes:    []string{ChannelCalculatedLoad},
		Eval: func(s *scope) (coordinator.Outcome, error) {
			return fullLoad("evseLoad_W", s.Inputs.EVSELoad), nil
		},
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "other-loads",
		Reference: "CEC 8-200 1)a)vii)",
		Writes:    []string{ChannelCalculatedLoad},
		Eval:      otherLoads,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "minimum-load",
		Reference: "CEC 8-200 1)b)",
		Writes:    []string{ChannelMinimumLoad, ChannelServiceLoad},
		Eval:      minimumLoad,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "service-current",
		Reference: "CEC 8-200, I = P / V",
		Writes:    []string{ChannelServiceCurrent},
		Eval:      serviceCurrent,
	},
	coordinator.Evaluator[Inputs]{
		RuleID:    "minimum-service",
		Reference: "CEC 8-200 1), 8-104",
		Writes:    []string{ChannelMinimumService},
		Eval:      minimumService,
	},
)

func livingArea(s *scope) (coordinator.Outcome, error) {
	factor, err := s.Value(TableLivingArea, "basementFactor")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	lo, err := s.Value(TableLivingArea, "minimumArea_m2")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	hi, err := s.Value(TableLivingArea, "maximumArea_m2")
	if err != nil {
		return coordinator.Outcome{}, err
	}

	ground := *s.Inputs.LivingArea
	area := ground + s.Inputs.BasementArea*factor

	out := coordinator.Outcome{
		Formula: "livingArea_m2 + basementArea_m2 * basementFactor",
		Inputs: map[string]float64{
			"livingArea_m2":   ground,
			"basementArea_m2": s.Inputs.BasementArea,
			"basementFactor":  factor,
		},
		Output:        area,
		Unit:          domain.UnitSquareMetre,
		Contributions: []coordinator.Contribution{coordinator.SetTo(ChannelLivingArea, area)},
	}
	if area < lo || area > hi {
		out.Warnings = append(out.Warnings, domain.Warning{
			Code:    WarnLivingAreaRange,
			Message: fmt.Sprintf("living area %.2f m2 is outside %g to %g m2", area, lo, hi),
		})
	}
	return out, nil
}

func basicLoad(s *scope) (coordinator.Outcome, error) {
	firstArea, err := s.Value(TableBasicLoad, "firstArea_m2")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	firstLoad, err := s.Value(TableBasicLoad, "firstLoad_W")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	addArea, err := s.Value(TableBasicLoad, "additionalArea_m2")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	addLoad, err := s.Value(TableBasicLoad, "additionalLoad_W")
	if err != nil {
		return coordinator.Outcome{}, err
	}

	area := s.Channel(ChannelLivingArea)
	portions := 0.0
	if addArea > 0 {
		portions = math.Ceil(math.Max(0, area-firstArea) / addArea)
	}
	load := firstLoad + portions*addLoad

	return coordinator.Outcome{
		Formula: "firstLoad_W + ceil(max(0, area - firstArea_m2) / additionalArea_m2) * additionalLoad_W",
		Inputs: map[string]float64{
			"area_m2":           area,
			"firstArea_m2":      firstArea,
			"firstLoad_W":       firstLoad,
			"additionalArea_m2": addArea,
			"additionalLoad_W":  addLoad,
		},
		Output:        load,
		Unit:          domain.UnitWatt,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelCalculatedLoad, load)},
	}, nil
}

func heatingDemand(s *scope) (float64, error) {
	t, err := s.Table(TableHeatingDemand)
	if err != nil {
		return 0, err
	}
	return t.ApplyBrackets(s.Inputs.HeatingLoad), nil
}

func spaceHeating(s *scope) (coordinator.Outcome, error) {
	demand, err := heatingDemand(s)
	if err != nil {
		return coordinator.Outcome{}, err
	}
	return coordinator.Outcome{
		Formula:       "brackets(heatingLoad_W)",
		Inputs:        map[string]float64{"heatingLoad_W": s.Inputs.HeatingLoad},
		Output:        demand,
		Unit:          domain.UnitWatt,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelCalculatedLoad, demand)},
	}, nil
}

func airConditioning(s *scope) (coordinator.Outcome, error) {
	ac := s.Inputs.AirConditioningLoad
	if !s.Inputs.HeatingCoolingInterlocked {
		return fullLoad("airConditioningLoad_W", ac), nil
	}

	demand, err := heatingDemand(s)
	if err != nil {
		return coordinator.Outcome{}, err
	}
	load := math.Max(0, ac-demand)
	return coordinator.Outcome{
		Formula: "max(0, airConditioningLoad_W - heatingDemand_W)",
		Inputs: map[string]float64{
			"airConditioningLoad_W": ac,
			"heatingDemand_W":       demand,
		},
		Output:        load,
		Unit:          domain.UnitWatt,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelCalculatedLoad, load)},
	}, nil
}

func rangeLoad(s *scope) (coordinator.Outcome, error) {
	rating := s.Inputs.RangeRating
	if rating == 0 {
		return coordinator.Outcome{
			Formula: "no range",
			Inputs:  map[string]float64{"rangeRating_W": 0},
			Unit:    domain.UnitWatt,
		}, nil
	}

	base, err := s.Value(TableRangeDemand, "baseLoad_W")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	threshold, err := s.Value(TableRangeDemand, "threshold_W")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	factor, err := s.Value(TableRangeDemand, "excessFactor")
	if err != nil {
		return coordinator.Outcome{}, err
	}

	load := base + factor*math.Max(0, rating-threshold)
	return coordinator.Outcome{
		Formula: "baseLoad_W + excessFactor * max(0, rangeRating_W - threshold_W)",
		Inputs: map[string]float64{
			"rangeRating_W": rating,
			"baseLoad_W":    base,
			"threshold_W":   threshold,
			"excessFactor":  factor,
		},
		Output:        load,
		Unit:          domain.UnitWatt,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelCalculatedLoad, load)},
	}, nil
}

func fullLoad(name string, v float64) coordinator.Outcome {
	return coordinator.Outcome{
		Formula:       name,
		Inputs:        map[string]float64{name: v},
		Output:        v,
		Unit:          domain.UnitWatt,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelCalculatedLoad, v)},
	}
}

func otherLoads(s *scope) (coordinator.Outcome, error) {
	other := s.Inputs.OtherLoadsOver1500

	if s.Inputs.RangeRating > 0 {
		factor, err := s.Value(TableOtherLoads, "withRangeFactor")
		if err != nil {
			return coordinator.Outcome{}, err
		}
		load := factor * other
		return coordinator.Outcome{
			Formula: "withRangeFactor * otherLoadsOver1500_W",
			Inputs: map[string]float64{
				"otherLoadsOver1500_W": other,
				"withRangeFactor":      factor,
			},
			Output:        load,
			Unit:          domain.UnitWatt,
			Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelCalculatedLoad, load)},
		}, nil
	}

	full, err := s.Value(TableOtherLoads, "withoutRangeFullLoad_W")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	factor, err := s.Value(TableOtherLoads, "withoutRangeExcessFactor")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	load := math.Min(other, full) + factor*math.Max(0, other-full)
	return coordinator.Outcome{
		Formula: "min(otherLoadsOver1500_W, withoutRangeFullLoad_W) + withoutRangeExcessFactor * max(0, otherLoadsOver1500_W - withoutRangeFullLoad_W)",
		Inputs: map[string]float64{
			"otherLoadsOver1500_W":     other,
			"withoutRangeFullLoad_W":   full,
			"withoutRangeExcessFactor": factor,
		},
		Output:        load,
		Unit:          domain.UnitWatt,
		Contributions: []coordinator.Contribution{coordinator.AddTo(ChannelCalculatedLoad, load)},
	}, nil
}

func minimumLoad(s *scope) (coordinator.Outcome, error) {
	threshold, err := s.Value(TableMinimumLoad, "areaThreshold_m2")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	above, err := s.Value(TableMinimumLoad, "aboveThreshold_W")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	below, err := s.Value(TableMinimumLoad, "belowThreshold_W")
	if err != nil {
		return coordinator.Outcome{}, err
	}

	area := s.Channel(ChannelLivingArea)
	minimum := below
	if area >= threshold {
		minimum = above
	}
	calculated := s.Channel(ChannelCalculatedLoad)
	service := math.Max(calculated, minimum)

	return coordinator.Outcome{
		Formula: "max(calculatedLoad_W, area_m2 >= areaThreshold_m2 ? aboveThreshold_W : belowThreshold_W)",
		Inputs: map[string]float64{
			"area_m2":          area,
			"calculatedLoad_W": calculated,
			"areaThreshold_m2": threshold,
			"aboveThreshold_W": above,
			"belowThreshold_W": below,
		},
		Output: service,
		Unit:   domain.UnitWatt,
		Contributions: []coordinator.Contribution{
			coordinator.SetTo(ChannelMinimumLoad, minimum),
			coordinator.SetTo(ChannelServiceLoad, service),
		},
	}, nil
}

func serviceCurrent(s *scope) (coordinator.Outcome, error) {
	t, err := s.Table(TableServiceMinimums)
	if err != nil {
		return coordinator.Outcome{}, err
	}

	voltage := *s.Inputs.SystemVoltage
	load := s.Channel(ChannelServiceLoad)
	current := domain.CurrentFromPower(load, voltage)

	out := coordinator.Outcome{
		Formula: "serviceLoad_W / systemVoltage",
		Inputs: map[string]float64{
			"serviceLoad_W": load,
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

func minimumService(s *scope) (coordinator.Outcome, error) {
	threshold, err := s.Value(TableServiceMinimums, "areaThreshold_m2")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	above, err := s.Value(TableServiceMinimums, "aboveThreshold_A")
	if err != nil {
		return coordinator.Outcome{}, err
	}
	below, err := s.Value(TableServiceMinimums, "belowThreshold_A")
	if err != nil {
		return coordinator.Outcome{}, err
	}

	area := s.Channel(ChannelLivingArea)
	rating := below
	if area >= threshold {
		rating = above
	}

	return coordinator.Outcome{
		Formula: "area_m2 >= areaThreshold_m2 ? aboveThreshold_A : belowThreshold_A",
		Inputs: map[string]float64{
			"area_m2":          area,
			"areaThreshold_m2": threshold,
			"aboveThreshold_A": above,
			"belowThreshold_A": below,
		},
		Output:        rating,
		Unit:          domain.UnitAmpere,
		Contributions: []coordinator.Contribution{coordinator.SetTo(ChannelMinimumService, rating)},
	}, nil
}

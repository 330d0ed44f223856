// Package cec implements the Canadian Electrical Code single dwelling service
// calculation of Rule 8-200.
package cec

import (
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/plugins"
)

// PluginID is the manifest id of the plugin.
const PluginID = "cec-8-200-single-dwelling"

// Table names.
const (
	TableLivingArea      = "living-area"
	TableBasicLoad       = "basic-load"
	TableHeatingDemand   = "heating-demand"
	TableRangeDemand     = "range-demand"
	TableOtherLoads      = "other-loads"
	TableMinimumLoad     = "minimum-load"
	TableServiceMinimums = "service-minimums"
)

// Result channels.
const (
	ChannelLivingArea     = "livingArea_m2"
	ChannelCalculatedLoad = "calculatedLoad_W"
	ChannelMinimumLoad    = "minimumLoad_W"
	ChannelServiceLoad    = "serviceLoad_W"
	ChannelServiceCurrent = "serviceCurrent_A"
	ChannelMinimumService = "minimumServiceRating_A"
)

// Inputs are the calculation inputs of a single dwelling.
// All loads are nameplate ratings in watts.
type Inputs struct {
	SystemVoltage             *float64 `json:"systemVoltage" validate:"required,gt=0"`
	LivingArea                *float64 `json:"livingArea_m2" validate:"required,gt=0"`
	BasementArea              float64  `json:"basementArea_m2" validate:"gte=0"`
	HeatingLoad               float64  `json:"heatingLoad_W" validate:"gte=0"`
	AirConditioningLoad       float64  `json:"airConditioningLoad_W" validate:"gte=0"`
	HeatingCoolingInterlocked bool     `json:"heatingCoolingInterlocked"`
	RangeRating               float64  `json:"rangeRating_W" validate:"gte=0"`
	WaterHeaterLoad           float64  `json:"waterHeaterLoad_W" validate:"gte=0"`
	EVSELoad                  float64  `json:"evseLoad_W" validate:"gte=0"`
	OtherLoadsOver1500        float64  `json:"otherLoadsOver1500_W" validate:"gte=0"`
}

// Manifest describes the plugin.
func Manifest() domain.Manifest {
	return domain.Manifest{
		ID:            PluginID,
		Name:          "CEC Rule 8-200 single dwelling",
		Version:       "1.0.0",
		Domain:        "electrical-load",
		Standards:     []string{"CEC"},
		BuildingTypes: []string{"single-dwelling"},
		Capabilities: domain.Capabilities{
			Offline: true,
			Audit:   true,
			Signing: true,
		},
		Entry: "builtin:cec",
		RequiredTables: []string{
			TableLivingArea,
			TableBasicLoad,
			TableHeatingDemand,
			TableRangeDemand,
			TableOtherLoads,
			TableMinimumLoad,
			TableServiceMinimums,
		},
		Tags: []string{"residential", "canada"},
	}
}

// New creates the plugin.
func New() *plugins.Plugin[Inputs] {
	return plugins.New(Manifest(), pipeline)
}

// Package nec implements the NEC 220.82 optional method for dwelling services.
package nec

import (
	"go.trai.ch/watt/internal/core/domain"
	"go.trai.ch/watt/internal/plugins"
)

// PluginID is the manifest id of the plugin.
const PluginID = "nec-220-82-dwelling"

// Table names.
const (
	TableGeneralLighting = "general-lighting"
	TableSmallAppliance  = "small-appliance"
	TableGeneralDemand   = "general-demand"
	TableHVACDemand      = "hvac-demand"
	TableService         = "service"
)

// Result channels.
const (
	ChannelFloorArea      = "floorArea_ft2"
	ChannelGeneralLoad    = "generalLoad_VA"
	ChannelGeneralDemand  = "generalDemand_VA"
	ChannelHVACDemand     = "hvacDemand_VA"
	ChannelTotalLoad      = "totalLoad_VA"
	ChannelServiceCurrent = "serviceCurrent_A"
)

// Inputs are the calculation inputs of a dwelling unit. Circuit counts fall back to
// the table defaults when omitted.
type Inputs struct {
	SystemVoltage          *float64 `json:"systemVoltage" validate:"required,gt=0"`
	FloorArea              *float64 `json:"floorArea_m2" validate:"required,gt=0"`
	SmallApplianceCircuits *int     `json:"smallApplianceCircuits" validate:"omitempty,gte=0"`
	LaundryCircuits        *int     `json:"laundryCircuits" validate:"omitempty,gte=0"`
	ApplianceLoads         float64  `json:"applianceLoads_VA" validate:"gte=0"`
	AirConditioningLoad    float64  `json:"airConditioningLoad_VA" validate:"gte=0"`
	HeatingLoad            float64  `json:"heatingLoad_VA" validate:"gte=0"`
}

// Manifest describes the plugin.
func Manifest() domain.Manifest {
	return domain.Manifest{
		ID:            PluginID,
		Name:          "NEC 220.82 dwelling optional method",
		Version:       "1.0.0",
		Domain:        "electrical-load",
		Standards:     []string{"NEC"},
		BuildingTypes: []string{"single-dwelling", "dwelling-unit"},
		Capabilities: domain.Capabilities{
			Offline: true,
			Audit:   true,
			Signing: true,
			Preview: true,
		},
		Entry: "builtin:nec",
		RequiredTables: []string{
			TableGeneralLighting,
			TableSmallAppliance,
			TableGeneralDemand,
			TableHVACDemand,
			TableService,
		},
		Tags: []string{"residential", "united-states"},
	}
}

// New creates the plugin.
func New() *plugins.Plugin[Inputs] {
	return plugins.New(Manifest(), pipeline)
}

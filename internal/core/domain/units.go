package domain

// Unit is the physical unit of a step output or result channel.
type Unit string

// Units used by the calculation stages.
const (
	UnitSquareMetre   Unit = "m2"
	UnitSquareFoot    Unit = "ft2"
	UnitWatt          Unit = "W"
	UnitVoltAmpere    Unit = "VA"
	UnitAmpere        Unit = "A"
	UnitVolt          Unit = "V"
	UnitDimensionless Unit = "1"
)

// SquareFootInSquareMetres is the exact size of one square foot in square metres.
const SquareFootInSquareMetres = 0.09290304

// SquareMetresToSquareFeet converts an area.
func SquareMetresToSquareFeet(m2 float64) float64 {
	return m2 / SquareFootInSquareMetres
}

// CurrentFromPower returns I = P / V. A non-positive voltage yields zero.
func CurrentFromPower(power, voltage float64) float64 {
	if voltage <= 0 {
		return 0
	}
	return power / voltage
}

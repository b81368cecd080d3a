package returns

// UnitConverter converts recorded weights into the grams expected by the
// web service.
type UnitConverter interface {
	ConvertToGrams(value float64, unit WeightUnit) float64
}

const (
	gramsPerKilogram = 1000
	gramsPerPound    = 453.59237
)

// StandardUnitConverter converts kilogram and pound weights to grams.
type StandardUnitConverter struct{}

// ConvertToGrams converts the given weight to grams. Unknown units are
// treated as kilograms, the capture default.
func (StandardUnitConverter) ConvertToGrams(value float64, unit WeightUnit) float64 {
	switch unit {
	case WeightLB:
		return value * gramsPerPound
	default:
		return value * gramsPerKilogram
	}
}

var _ UnitConverter = StandardUnitConverter{}

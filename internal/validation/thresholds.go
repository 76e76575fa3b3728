// Package validation implements the geometric pass/fail checks applied to a
// candidate base pair from its two reference frames: origin distance,
// vertical offset along the average helix axis, inter-plane angle, and the
// glycosidic-nitrogen separation.
package validation

// Threshold and weight defaults for pair validation.
const (
	DefaultMaxDorg       = 15.0
	DefaultMaxDV         = 2.5
	DefaultMaxPlaneAngle = 65.0
	DefaultMinDNN        = 4.5

	DefaultDVWeight          = 1.5
	DefaultPlaneAngleDivisor = 180.0
)

// Thresholds configures the validator's four checks and the weights of its
// composite quality metric.
type Thresholds struct {
	MaxDorg       float64 // maximum origin distance (Angstroms)
	MaxDV         float64 // maximum vertical distance (Angstroms)
	MaxPlaneAngle float64 // maximum inter-plane angle (degrees)
	MinDNN        float64 // minimum glycosidic-N distance (Angstroms)

	DVWeight          float64 // weight of d_v in the quality metric
	PlaneAngleDivisor float64 // divisor of plane_angle in the quality metric
}

// DefaultThresholds matches the legacy X3DNA validation behavior.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxDorg:           DefaultMaxDorg,
		MaxDV:             DefaultMaxDV,
		MaxPlaneAngle:     DefaultMaxPlaneAngle,
		MinDNN:            DefaultMinDNN,
		DVWeight:          DefaultDVWeight,
		PlaneAngleDivisor: DefaultPlaneAngleDivisor,
	}
}

// StrictThresholds tightens the limits for high-confidence pair detection.
func StrictThresholds() Thresholds {
	t := DefaultThresholds()
	t.MaxDorg = 12.0
	t.MaxDV = 2.0
	t.MaxPlaneAngle = 45.0
	return t
}

// RelaxedThresholds loosens the limits for distorted or flexible structures.
func RelaxedThresholds() Thresholds {
	t := DefaultThresholds()
	t.MaxDorg = 18.0
	t.MaxDV = 3.0
	t.MaxPlaneAngle = 75.0
	return t
}

// QualityMetric combines the geometric measurements into a single number;
// LOWER is better. This is distinct from the 0-1 pair score assigned later
// by the quality scorer.
func (t Thresholds) QualityMetric(dorg, dv, planeAngle float64) float64 {
	return dorg + t.DVWeight*dv + planeAngle/t.PlaneAngleDivisor
}

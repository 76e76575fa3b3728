package validation

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jyesselm/basepairs/internal/frame"
	"github.com/jyesselm/basepairs/internal/geometry"
)

// Result carries every metric computed during geometric validation along
// with the pass/fail status of each check.
type Result struct {
	Dorg       float64 `json:"dorg"`        // distance between frame origins (Angstroms)
	DV         float64 `json:"d_v"`         // vertical distance along the average helix axis
	PlaneAngle float64 `json:"plane_angle"` // angle between base-plane normals, in [0, 90]
	DNN        float64 `json:"dNN"`         // glycosidic nitrogen separation

	DirX float64 `json:"dir_x"` // dot product of the two x-axes
	DirY float64 `json:"dir_y"` // dot product of the two y-axes
	DirZ float64 `json:"dir_z"` // dot product of the two z-axes

	// QualityMetric is the validator's composite; LOWER is better.
	QualityMetric float64 `json:"quality_metric"`

	DistanceCheck   bool `json:"distance_check"`
	DVCheck         bool `json:"d_v_check"`
	PlaneAngleCheck bool `json:"plane_angle_check"`
	DNNCheck        bool `json:"dNN_check"`
	IsValid         bool `json:"is_valid"`

	// RejectionReason names the failed checks when IsValid is false.
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// FailedChecks lists the names of the checks that failed.
func (r *Result) FailedChecks() []string {
	var failed []string
	if !r.DistanceCheck {
		failed = append(failed, "dorg")
	}
	if !r.DVCheck {
		failed = append(failed, "d_v")
	}
	if !r.PlaneAngleCheck {
		failed = append(failed, "plane_angle")
	}
	if !r.DNNCheck {
		failed = append(failed, "dNN")
	}
	return failed
}

// Validator applies geometric checks to candidate base pairs.
type Validator struct {
	thresholds Thresholds
}

// NewValidator returns a validator with the given thresholds.
func NewValidator(t Thresholds) *Validator {
	return &Validator{thresholds: t}
}

// Thresholds returns the validator's configuration.
func (v *Validator) Thresholds() Thresholds { return v.thresholds }

// Validate computes the geometric metrics between two residue frames and
// their glycosidic-nitrogen positions, and applies the four checks.
func (v *Validator) Validate(f1, f2 *frame.Frame, glyN1, glyN2 r3.Vec) *Result {
	dorgVec := r3.Sub(f1.Origin, f2.Origin)
	dorg := r3.Norm(dorgVec)

	x1, y1, z1 := f1.XAxis(), f1.YAxis(), f1.ZAxis()
	x2, y2, z2 := f2.XAxis(), f2.YAxis(), f2.ZAxis()

	dirX := r3.Dot(x1, x2)
	dirY := r3.Dot(y1, y2)
	dirZ := r3.Dot(z1, z2)

	// Average helix axis. For anti-parallel pairs (dirZ <= 0) the first
	// normal is negated so the two contributions reinforce.
	var zave r3.Vec
	if dirZ > 0 {
		zave = r3.Add(z1, z2)
	} else {
		zave = r3.Sub(z2, z1)
	}
	if r3.Norm(zave) > 1e-10 {
		zave = geometry.Normalize(zave)
	} else {
		zave = z1
	}

	dv := math.Abs(r3.Dot(dorgVec, zave))

	// Inter-plane angle folded into [0, 90] via the absolute dot product.
	dot := clamp(dirZ, -1, 1)
	planeAngle := math.Acos(math.Abs(dot)) * 180 / math.Pi

	dnn := geometry.Distance(glyN1, glyN2)

	t := v.thresholds
	result := &Result{
		Dorg:            dorg,
		DV:              dv,
		PlaneAngle:      planeAngle,
		DNN:             dnn,
		DirX:            dirX,
		DirY:            dirY,
		DirZ:            dirZ,
		QualityMetric:   t.QualityMetric(dorg, dv, planeAngle),
		DistanceCheck:   dorg <= t.MaxDorg,
		DVCheck:         dv <= t.MaxDV,
		PlaneAngleCheck: planeAngle <= t.MaxPlaneAngle,
		DNNCheck:        dnn >= t.MinDNN,
	}
	result.IsValid = result.DistanceCheck && result.DVCheck && result.PlaneAngleCheck && result.DNNCheck
	if !result.IsValid {
		result.RejectionReason = "failed_geometry:" + strings.Join(result.FailedChecks(), ",")
	}
	return result
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

package diagnose

import (
	"fmt"

	"ricedoctor/classifier"
)

// Diagnosis is the single top-1 result of one classification call.
// Confidence is the top probability expressed as a percentage in [0,100].
// No minimum-confidence threshold is applied; low-confidence results are
// reported with their true value and any "uncertain" policy belongs to the
// presentation layer.
type Diagnosis struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Interpret reduces a ranked distribution to its top-1 Diagnosis. The
// distribution's ordering already resolves ties deterministically to the
// lowest class ordinal; Interpret re-scans rather than trusting index 0
// blindly so a mis-ordered input is caught instead of silently accepted.
func Interpret(dist classifier.Distribution) (Diagnosis, error) {
	if len(dist) == 0 {
		return Diagnosis{}, fmt.Errorf("diagnose: empty distribution")
	}

	top := dist[0]
	for _, p := range dist[1:] {
		if p.Probability > top.Probability ||
			(p.Probability == top.Probability && p.Ordinal < top.Ordinal) {
			top = p
		}
	}

	return Diagnosis{
		Label:      top.Label,
		Confidence: top.Probability * 100,
	}, nil
}

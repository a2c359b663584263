package analyzer

// Confidence tiers.
const (
	StrongConfidence   = 0.8
	ModerateConfidence = 0.6
)

// Tier classifies a rule confidence as "strong", "moderate" or "weak".
func Tier(confidence float64) string {
	switch {
	case confidence >= StrongConfidence:
		return "strong"
	case confidence >= ModerateConfidence:
		return "moderate"
	default:
		return "weak"
	}
}

package recommend

// Config holds the rule thresholds. CTR, CVR and completion values are percentages.
type Config struct {
	CTRFloor             float64
	CVRFloor             float64
	ROASFloor            float64
	SpreadRatio          float64
	CPACeiling           float64
	VideoCompletionFloor float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		CTRFloor:             1.0,
		CVRFloor:             2.0,
		ROASFloor:            2.0,
		SpreadRatio:          2.0,
		CPACeiling:           50.0,
		VideoCompletionFloor: 50.0,
	}
}

package models

// DiffRatioRecord carries the difference and ratio of one functional between two independent fits
// (§3 Contrast object, §4.5).
type DiffRatioRecord struct {
	Functional string

	DiffEstimate float64
	DiffSE       float64
	DiffCILower  float64
	DiffCIUpper  float64
	DiffP        float64

	RatioEstimate float64
	RatioSE       float64 // SE(log R), on the log scale
	RatioCILower  float64
	RatioCIUpper  float64
	RatioP        float64
}

// ContrastResult is the immutable output of the contrast engine (§3 Contrast object).
type ContrastResult struct {
	RunID string

	Target    FitResult
	Reference FitResult

	Sig     float64
	Records []DiffRatioRecord
}

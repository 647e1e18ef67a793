package models

import "errors"

// PredictionResult is the scoring response. A success carries Decision and
// FraudProbability; a failure carries Error. FraudFlag and Threshold are
// informational extras the reference backend also returns.
type PredictionResult struct {
	Decision         string   `json:"decision,omitempty"`
	FraudProbability *float64 `json:"fraud_probability,omitempty"`
	FraudFlag        *int     `json:"fraud_flag,omitempty"`
	Threshold        *float64 `json:"threshold,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// IsError reports whether the response has the failure shape
func (r *PredictionResult) IsError() bool {
	return r.Error != ""
}

// Validate checks that a success response carries both decision and probability
func (r *PredictionResult) Validate() error {
	if r.IsError() {
		return errors.New("result carries an error")
	}
	if r.Decision == "" {
		return errors.New("decision must not be empty")
	}
	if r.FraudProbability == nil {
		return errors.New("fraud probability is missing")
	}
	return nil
}

// ProbabilityText formats the probability as received, without rounding, in browser number notation
func (r *PredictionResult) ProbabilityText() string {
	if r.FraudProbability == nil {
		return ""
	}
	return FormatNumber(*r.FraudProbability)
}

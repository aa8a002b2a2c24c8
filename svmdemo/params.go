package svmdemo

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Field names reported by ValidationError.
const (
	FieldCost   = "cost"
	FieldGamma  = "gamma"
	FieldDegree = "degree"
)

// ValidationError reports a hyperparameter that could not be used.
type ValidationError struct {
	Field  string
	Text   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s value %q %s", e.Field, e.Text, e.Reason)
}

// MaxDegree is the largest polynomial degree the form offers.
const MaxDegree = 30

// ParseTrainingRequest validates the raw form values. Cost and gamma are
// parsed from user text; a failure returns a *ValidationError naming the
// field and nothing is trained.
func ParseTrainingRequest(kernel, costText, gammaText string, degree int) (TrainingRequest, error) {
	k, err := ParseKernel(kernel)
	if err != nil {
		return TrainingRequest{}, err
	}
	cost, err := parseNumber(FieldCost, costText)
	if err != nil {
		return TrainingRequest{}, err
	}
	if cost <= 0 {
		return TrainingRequest{}, &ValidationError{Field: FieldCost, Text: costText, Reason: "must be positive"}
	}
	gamma, err := parseNumber(FieldGamma, gammaText)
	if err != nil {
		return TrainingRequest{}, err
	}
	if degree < 0 || degree > MaxDegree {
		return TrainingRequest{}, &ValidationError{
			Field:  FieldDegree,
			Text:   strconv.Itoa(degree),
			Reason: fmt.Sprintf("must be between 0 and %d", MaxDegree),
		}
	}
	return TrainingRequest{Kernel: k, Cost: cost, Gamma: gamma, Degree: degree}, nil
}

func parseNumber(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(normalizeNumber(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Text: text, Reason: "is not a number"}
	}
	return v, nil
}

// normalizeNumber folds full-width digits and signs to ASCII.
func normalizeNumber(text string) string {
	return strings.TrimSpace(norm.NFKC.String(text))
}

// FormatNumber renders a hyperparameter for an entry field.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

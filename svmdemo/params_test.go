package svmdemo

import (
	"errors"
	"testing"
)

func TestParseTrainingRequest(t *testing.T) {
	req, err := ParseTrainingRequest("RBF", "2.5", " 0.5 ", 3)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := TrainingRequest{Kernel: KernelRBF, Cost: 2.5, Gamma: 0.5, Degree: 3}
	if req != want {
		t.Fatalf("req=%+v, want %+v", req, want)
	}
}

func TestParseTrainingRequestFullWidthDigits(t *testing.T) {
	req, err := ParseTrainingRequest("linear", "１．５", "２", 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Cost != 1.5 || req.Gamma != 2 {
		t.Fatalf("req=%+v", req)
	}
}

func TestParseTrainingRequestValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		cost  string
		gamma string
		deg   int
		field string
	}{
		{"cost text", "abc", "1.0", 1, FieldCost},
		{"gamma text", "1.0", "xyz", 1, FieldGamma},
		{"empty cost", "", "1.0", 1, FieldCost},
		{"nan cost", "NaN", "1.0", 1, FieldCost},
		{"zero cost", "0", "1.0", 1, FieldCost},
		{"negative cost", "-1", "1.0", 1, FieldCost},
		{"inf gamma", "1", "Inf", 1, FieldGamma},
		{"degree", "1", "1", -1, FieldDegree},
	}
	for _, c := range cases {
		_, err := ParseTrainingRequest("linear", c.cost, c.gamma, c.deg)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: err=%v, want *ValidationError", c.name, err)
		}
		if verr.Field != c.field {
			t.Fatalf("%s: field=%q, want %q", c.name, verr.Field, c.field)
		}
	}
}

func TestValidationErrorMessageNamesFieldAndText(t *testing.T) {
	_, err := ParseTrainingRequest("linear", "abc", "1.0", 1)
	if err == nil || err.Error() != `cost value "abc" is not a number` {
		t.Fatalf("err=%v", err)
	}
	_, err = ParseTrainingRequest("linear", "1.0", "xyz", 1)
	if err == nil || err.Error() != `gamma value "xyz" is not a number` {
		t.Fatalf("err=%v", err)
	}
}

func TestParseTrainingRequestUnknownKernel(t *testing.T) {
	_, err := ParseTrainingRequest("cubic", "1", "1", 1)
	var verr *ValidationError
	if err == nil || errors.As(err, &verr) {
		t.Fatalf("err=%v, want plain error", err)
	}
}

func TestFormatNumber(t *testing.T) {
	for in, want := range map[float64]string{1: "1.0", 0.25: "0.25", 8: "8.0", 1e-7: "0.0000001"} {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v)=%q, want %q", in, got, want)
		}
	}
}

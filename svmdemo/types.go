package svmdemo

import (
	"fmt"
	"strings"
)

// Label is the class of a clicked point.
type Label int

const (
	// LabelA is the first class, drawn blue.
	LabelA Label = iota
	// LabelB is the second class, drawn green.
	LabelB
)

// Labels lists both classes in display order.
var Labels = []Label{LabelA, LabelB}

func (l Label) String() string {
	switch l {
	case LabelA:
		return "A"
	case LabelB:
		return "B"
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// ColourName returns the name the desktop UI shows for the class.
func (l Label) ColourName() string {
	if l == LabelB {
		return "green"
	}
	return "blue"
}

// Encode maps the label onto the trainer's binary encoding.
func (l Label) Encode() int {
	if l == LabelA {
		return 1
	}
	return 0
}

// DecodeLabel is the inverse of Label.Encode. Any non-zero value is LabelA.
func DecodeLabel(v int) Label {
	if v == 0 {
		return LabelB
	}
	return LabelA
}

// ParseLabel accepts the class letter, its colour name or its binary encoding.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "blue", "1":
		return LabelA, nil
	case "b", "green", "0":
		return LabelB, nil
	}
	return 0, fmt.Errorf("unknown label %q", s)
}

// LabeledPoint is a clicked point in canvas pixel coordinates.
type LabeledPoint struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	Label Label `json:"label"`
}

// Kernel names the kernel function used for training.
type Kernel string

const (
	KernelLinear     Kernel = "linear"
	KernelRBF        Kernel = "rbf"
	KernelPolynomial Kernel = "polynomial"
	KernelSigmoid    Kernel = "sigmoid"
)

// Kernels lists the supported kernels in menu order.
var Kernels = []Kernel{KernelLinear, KernelRBF, KernelPolynomial, KernelSigmoid}

// DisplayName is the label used by the kernel selector.
func (k Kernel) DisplayName() string {
	switch k {
	case KernelRBF:
		return "RBF"
	case KernelLinear, KernelPolynomial, KernelSigmoid:
		return string(k)
	}
	return string(k)
}

// UsesGamma reports whether the gamma field is meaningful for the kernel.
func (k Kernel) UsesGamma() bool {
	return k == KernelRBF || k == KernelSigmoid
}

// UsesDegree reports whether the degree field is meaningful for the kernel.
func (k Kernel) UsesDegree() bool {
	return k == KernelPolynomial
}

// ParseKernel resolves a kernel from its name or display name.
func ParseKernel(s string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return KernelLinear, nil
	case "rbf":
		return KernelRBF, nil
	case "polynomial", "poly":
		return KernelPolynomial, nil
	case "sigmoid":
		return KernelSigmoid, nil
	}
	return "", fmt.Errorf("unknown kernel %q", s)
}

// TrainingRequest carries the hyperparameters of one training run.
type TrainingRequest struct {
	Kernel Kernel  `json:"kernel"`
	Cost   float64 `json:"cost"`
	Gamma  float64 `json:"gamma"`
	Degree int     `json:"degree"`
}

func (r TrainingRequest) String() string {
	switch {
	case r.Kernel.UsesGamma():
		return fmt.Sprintf("%s C=%g gamma=%g", r.Kernel.DisplayName(), r.Cost, r.Gamma)
	case r.Kernel.UsesDegree():
		return fmt.Sprintf("%s C=%g degree=%d", r.Kernel.DisplayName(), r.Cost, r.Degree)
	}
	return fmt.Sprintf("%s C=%g", r.Kernel.DisplayName(), r.Cost)
}

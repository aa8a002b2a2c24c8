package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"yashubustudio/svmdemo/svmdemo"
)

func TestResolveRequestPrefersFlags(t *testing.T) {
	form := svmdemo.FormConfig{Kernel: svmdemo.KernelLinear, Cost: "1.0", Gamma: "1.0", Degree: 1}
	req, err := resolveRequest(form, cliOptions{kernel: "rbf", gamma: "0.5", degree: -1})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := svmdemo.TrainingRequest{Kernel: svmdemo.KernelRBF, Cost: 1, Gamma: 0.5, Degree: 1}
	if req != want {
		t.Fatalf("req=%+v, want %+v", req, want)
	}
	_, err = resolveRequest(form, cliOptions{cost: "abc", degree: -1})
	var verr *svmdemo.ValidationError
	if !errors.As(err, &verr) || verr.Field != svmdemo.FieldCost {
		t.Fatalf("err=%v", err)
	}
}

func TestRunWritesImageAndPlot(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	cfg := svmdemo.DefaultConfig()
	cfg.Width, cfg.Height = 80, 60
	if err := svmdemo.SaveConfig(cfgPath, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	pointsPath := filepath.Join(dir, "points.csv")
	points := []svmdemo.LabeledPoint{
		{X: 10, Y: 10, Label: svmdemo.LabelA},
		{X: 70, Y: 50, Label: svmdemo.LabelB},
	}
	if err := svmdemo.SavePointsFile(pointsPath, points); err != nil {
		t.Fatalf("save points: %v", err)
	}
	out := filepath.Join(dir, "out", "svm.png")
	plotPath := filepath.Join(dir, "plot.svg")
	err := run(cliOptions{configPath: cfgPath, pointsPath: pointsPath, degree: -1, outputPath: out, plotPath: plotPath})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 80 || img.Bounds().Dy() != 60 {
		t.Fatalf("bounds=%v", img.Bounds())
	}
	if _, err := os.Stat(plotPath); err != nil {
		t.Fatalf("plot missing: %v", err)
	}
}

func TestRunWithoutPoints(t *testing.T) {
	dir := t.TempDir()
	pointsPath := filepath.Join(dir, "points.csv")
	if err := os.WriteFile(pointsPath, []byte("label,x,y\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := run(cliOptions{configPath: filepath.Join(dir, "config.json"), pointsPath: pointsPath, degree: -1, outputDir: dir})
	if !errors.Is(err, svmdemo.ErrNoPoints) {
		t.Fatalf("err=%v, want ErrNoPoints", err)
	}
}

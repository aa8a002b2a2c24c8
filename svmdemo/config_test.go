package svmdemo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 600 {
		t.Fatalf("size=%dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Form.Kernel != KernelLinear || cfg.Form.Cost != "1.0" || cfg.Form.Gamma != "1.0" || cfg.Form.Degree != 1 {
		t.Fatalf("form=%+v", cfg.Form)
	}
	if cfg.Workers < 1 {
		t.Fatalf("workers=%d", cfg.Workers)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := DefaultConfig()
	cfg.Form = FormConfig{Kernel: KernelPolynomial, Cost: "2.5", Gamma: "abc", Degree: 4}
	cfg.PointsPath = "points.csv"
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != cfg {
		t.Fatalf("config=%+v, want %+v", got, cfg)
	}
}

func TestConfigSanitize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	raw := `{"width": 99999, "height": -3, "workers": -1, "form": {"kernel": "cubic", "degree": 99}}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Width != 4096 || cfg.Height != 1 || cfg.Workers != 1 {
		t.Fatalf("size=%dx%d workers=%d", cfg.Width, cfg.Height, cfg.Workers)
	}
	if cfg.Form.Kernel != KernelLinear || cfg.Form.Degree != MaxDegree {
		t.Fatalf("form=%+v", cfg.Form)
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestConfigKeepsDegreeZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.Form = FormConfig{Kernel: KernelPolynomial, Cost: "1.0", Gamma: "1.0", Degree: 0}
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Form.Degree != 0 {
		t.Fatalf("degree=%d after reload, want 0", got.Form.Degree)
	}

	svc, _ := newTestService(t, NewSVMTrainer(), 10, 10)
	if updated := svc.UpdateConfig(got); updated.Form.Degree != 0 {
		t.Fatalf("degree=%d after UpdateConfig, want 0", updated.Form.Degree)
	}
	if svc.Config().Form.Degree != 0 {
		t.Fatalf("service config degree=%d", svc.Config().Form.Degree)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"form": {"kernel": "rbf"}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Form.Kernel != KernelRBF || cfg.Form.Degree != 1 || cfg.Width != DefaultWidth {
		t.Fatalf("config=%+v", cfg)
	}
}

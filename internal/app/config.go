package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yashubustudio/svmdemo/svmdemo"
)

const (
	fyneAppID         = "yashubustudio.svmdemo"
	defaultConfigPath = "config.json"
	logLineLimit      = 300
)

type choice struct {
	Label string
	Value string
}

var classChoices = []choice{
	{Label: "クラスA (青)", Value: svmdemo.LabelA.String()},
	{Label: "クラスB (緑)", Value: svmdemo.LabelB.String()},
}

func kernelChoices() []choice {
	out := make([]choice, len(svmdemo.Kernels))
	for i, k := range svmdemo.Kernels {
		out[i] = choice{Label: k.DisplayName(), Value: string(k)}
	}
	return out
}

func choiceLabels(choices []choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Label
	}
	return out
}

func choiceValue(choices []choice, label string) (string, bool) {
	for _, c := range choices {
		if c.Label == label {
			return c.Value, true
		}
	}
	return "", false
}

func choiceLabel(choices []choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return choices[0].Label
}

// ensureConfigFile writes the default settings to path when the file does
// not exist yet, so users have something to edit outside the app.
func ensureConfigFile(path string) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return
	}
	clean = filepath.Clean(clean)
	if _, err := os.Stat(clean); err == nil {
		return
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Println("設定ファイル確認エラー:", err)
		return
	}
	if err := svmdemo.SaveConfig(clean, svmdemo.DefaultConfig()); err != nil {
		fmt.Println("設定ファイル作成エラー:", err)
	}
}

package app

import (
	"fmt"
	"io"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"

	"yashubustudio/svmdemo/svmdemo"
)

// Run loads the settings, starts the desktop UI and saves the settings when
// the window closes.
func Run() error {
	ensureConfigFile(defaultConfigPath)
	cfg, err := svmdemo.LoadConfig(defaultConfigPath)
	if err != nil {
		return fmt.Errorf("設定の読み込みに失敗しました: %w", err)
	}

	logs := newLogCapture(logLineLimit)
	logger := log.New(io.MultiWriter(os.Stdout, logs), "", log.LstdFlags)

	svc, err := svmdemo.NewService(svmdemo.NewSVMTrainer(), cfg, logger)
	if err != nil {
		return fmt.Errorf("サービス初期化に失敗しました: %w", err)
	}

	a := fyneapp.NewWithID(fyneAppID)
	u := buildUI(a, svc, logs, logger, defaultConfigPath)
	u.restorePoints()
	u.w.ShowAndRun()
	if err := u.saveConfig(); err != nil {
		return fmt.Errorf("設定の保存に失敗しました: %w", err)
	}
	return nil
}

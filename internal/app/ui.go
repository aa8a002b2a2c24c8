package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/svmdemo/svmdemo"
)

const logDebounceInterval = 150 * time.Millisecond

type uiState struct {
	service *svmdemo.Service
	cfg     svmdemo.Config
	cfgPath string
	logs    *logCapture
	logger  *log.Logger

	w            fyne.Window
	canvas       *pointCanvas
	classSel     *widget.RadioGroup
	kernelSel    *widget.Select
	costEntry    *widget.Entry
	gammaEntry   *widget.Entry
	degreeSel    *widget.Select
	log          *widget.Entry
	status       *widget.Label
	progress     *widget.ProgressBar
	summary      *widget.Label
	statusBind   binding.String
	logBind      binding.String
	progressBind binding.Float

	trainBtn  *widget.Button
	clearBtn  *widget.Button
	loadBtn   *widget.Button
	saveBtn   *widget.Button
	exportBtn *widget.Button
	plotBtn   *widget.Button

	renderMu   sync.Mutex
	baseRaster *svmdemo.DecisionRaster
	baseImage  image.Image
	lastImage  *image.NRGBA

	stopCh   chan struct{}
	stopOnce sync.Once
}

func buildUI(a fyne.App, svc *svmdemo.Service, logs *logCapture, logger *log.Logger, cfgPath string) *uiState {
	u := &uiState{service: svc, cfgPath: cfgPath, logs: logs, logger: logger, stopCh: make(chan struct{})}
	u.cfg = svc.Config()
	u.w = a.NewWindow("Support-Vector Machines")
	u.w.SetOnClosed(u.stop)

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set("準備完了")
	u.progressBind = binding.NewFloat()
	u.logBind = binding.NewString()
	u.startLogUpdater()

	width, height := svc.Bounds()
	u.canvas = newPointCanvas(width, height, u.onCanvasTap)

	u.classSel = widget.NewRadioGroup(choiceLabels(classChoices), u.onClassChanged)
	u.classSel.Horizontal = true
	u.classSel.Required = true
	u.classSel.SetSelected(choiceLabel(classChoices, svc.ActiveLabel().String()))

	u.costEntry = widget.NewEntry()
	u.costEntry.SetText(u.cfg.Form.Cost)
	u.gammaEntry = widget.NewEntry()
	u.gammaEntry.SetText(u.cfg.Form.Gamma)
	degrees := make([]string, svmdemo.MaxDegree+1)
	for i := range degrees {
		degrees[i] = strconv.Itoa(i)
	}
	u.degreeSel = widget.NewSelect(degrees, nil)
	u.degreeSel.SetSelected(strconv.Itoa(u.cfg.Form.Degree))

	kernels := kernelChoices()
	u.kernelSel = widget.NewSelect(choiceLabels(kernels), func(string) { u.updateKernelControls() })
	u.kernelSel.SetSelected(choiceLabel(kernels, string(u.cfg.Form.Kernel)))

	u.log = widget.NewEntryWithData(u.logBind)
	u.log.MultiLine = true
	u.log.Wrapping = fyne.TextWrapWord
	u.log.SetPlaceHolder("処理ログ")
	u.log.Disable()

	u.status = widget.NewLabelWithData(u.statusBind)
	u.progress = widget.NewProgressBarWithData(u.progressBind)
	u.progress.Hide()
	u.summary = widget.NewLabel("")

	u.trainBtn = widget.NewButtonWithIcon("学習実行", theme.ConfirmIcon(), func() { u.onTrain() })
	u.clearBtn = widget.NewButtonWithIcon("クリア", theme.ContentClearIcon(), func() { u.onClear() })
	u.loadBtn = widget.NewButtonWithIcon("点を読込", theme.FolderOpenIcon(), func() { u.onLoadPoints() })
	u.saveBtn = widget.NewButtonWithIcon("点を保存", theme.DocumentSaveIcon(), func() { u.onSavePoints() })
	u.exportBtn = widget.NewButtonWithIcon("画像出力", theme.FileImageIcon(), func() { u.onExportImage() })
	u.plotBtn = widget.NewButtonWithIcon("グラフ出力", theme.GridIcon(), func() { u.onExportPlot() })

	form := &widget.Form{Items: []*widget.FormItem{
		{Text: "カーネル", Widget: u.kernelSel},
		{Text: "Cost", Widget: u.costEntry},
		{Text: "Gamma", Widget: u.gammaEntry},
		{Text: "Degree", Widget: u.degreeSel},
	}}

	left := container.NewVBox(
		widget.NewLabelWithStyle("クラス", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.classSel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("パラメータ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		container.NewGridWithColumns(2, u.trainBtn, u.clearBtn),
		container.NewGridWithColumns(2, u.loadBtn, u.saveBtn),
		container.NewGridWithColumns(2, u.exportBtn, u.plotBtn),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("進捗", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.progress,
		u.status,
		u.summary,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("ログ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	leftPane := container.NewBorder(left, nil, nil, nil, u.log)

	split := container.NewHSplit(leftPane, container.NewScroll(u.canvas))
	split.Offset = 0.3

	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1180, 760))

	svc.OnChange(u.redraw)
	u.redraw()
	return u
}

func (u *uiState) selectedKernel() svmdemo.Kernel {
	v, ok := choiceValue(kernelChoices(), u.kernelSel.Selected)
	if !ok {
		return svmdemo.KernelLinear
	}
	return svmdemo.Kernel(v)
}

func (u *uiState) selectedDegree() int {
	v, err := strconv.Atoi(u.degreeSel.Selected)
	if err != nil {
		return u.cfg.Form.Degree
	}
	return v
}

func (u *uiState) updateKernelControls() {
	k := u.selectedKernel()
	if k.UsesGamma() {
		u.gammaEntry.Enable()
	} else {
		u.gammaEntry.Disable()
	}
	if k.UsesDegree() {
		u.degreeSel.Enable()
	} else {
		u.degreeSel.Disable()
	}
}

func (u *uiState) onClassChanged(label string) {
	v, ok := choiceValue(classChoices, label)
	if !ok {
		return
	}
	l, err := svmdemo.ParseLabel(v)
	if err != nil {
		return
	}
	u.service.SetActiveLabel(l)
}

func (u *uiState) onCanvasTap(x, y int) {
	if u.service.AddPoint(x, y) {
		return
	}
	if u.service.Training() {
		u.setStatus("学習中は点を追加できません")
	}
}

func (u *uiState) redraw() {
	snap := u.service.Snapshot()
	width, height := u.service.Bounds()

	u.renderMu.Lock()
	if snap.Raster != u.baseRaster {
		u.baseRaster = snap.Raster
		u.baseImage = nil
		if snap.Raster != nil {
			u.baseImage = snap.Raster.Image()
		}
	}
	img := svmdemo.Render(snap, width, height, u.baseImage)
	u.lastImage = img
	u.renderMu.Unlock()

	text := summaryText(snap)
	fyne.Do(func() {
		u.canvas.setImage(img)
		u.summary.SetText(text)
	})
}

func (u *uiState) currentImage() *image.NRGBA {
	u.renderMu.Lock()
	defer u.renderMu.Unlock()
	return u.lastImage
}

func summaryText(snap svmdemo.Snapshot) string {
	var a, b int
	for _, p := range snap.Points {
		if p.Label == svmdemo.LabelA {
			a++
		} else {
			b++
		}
	}
	return fmt.Sprintf("点:%d (A:%d / B:%d) / サポートベクター:%d", len(snap.Points), a, b, len(snap.SupportVectors))
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		if b {
			u.trainBtn.Disable()
			u.clearBtn.Disable()
			u.loadBtn.Disable()
		} else {
			u.trainBtn.Enable()
			u.clearBtn.Enable()
			u.loadBtn.Enable()
		}
	})
}

func (u *uiState) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

func (u *uiState) startLogUpdater() {
	if u.logs == nil {
		return
	}
	go u.logUpdateLoop()
}

// stop ends the log updater. Safe to call more than once.
func (u *uiState) stop() {
	u.stopOnce.Do(func() { close(u.stopCh) })
}

func (u *uiState) logUpdateLoop() {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-u.stopCh:
			timer.Stop()
			return
		case <-u.logs.updates:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			u.flushLog()
		}
	}
}

func (u *uiState) flushLog() {
	_ = u.logBind.Set(u.logs.Text())
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) configureProgress(min, max float64) {
	fyne.Do(func() {
		u.progress.Min = min
		u.progress.Max = max
	})
}

func (u *uiState) setProgressValue(value float64) {
	_ = u.progressBind.Set(value)
}

func (u *uiState) showProgress() {
	fyne.Do(func() {
		u.progress.Show()
	})
}

func (u *uiState) hideProgress() {
	fyne.Do(func() {
		u.progress.Hide()
	})
}

// readRequest validates the form. Invalid numbers are reported in an error
// dialog and nothing is trained.
func (u *uiState) readRequest() (svmdemo.TrainingRequest, bool) {
	req, err := svmdemo.ParseTrainingRequest(string(u.selectedKernel()), u.costEntry.Text, u.gammaEntry.Text, u.selectedDegree())
	if err != nil {
		var verr *svmdemo.ValidationError
		if errors.As(err, &verr) {
			u.logf("入力エラー: %v", verr)
		}
		u.setStatus("入力エラー")
		dialog.ShowError(err, u.w)
		return svmdemo.TrainingRequest{}, false
	}
	return req, true
}

func (u *uiState) onTrain() {
	req, ok := u.readRequest()
	if !ok {
		return
	}
	u.rememberForm()
	if len(u.service.Points()) == 0 {
		u.setStatus("点がありません")
		return
	}
	width, _ := u.service.Bounds()
	u.configureProgress(0, float64(width))
	u.setProgressValue(0)
	u.showProgress()
	u.setStatus("学習中...")
	u.setBusy(true)
	go func() {
		_ = u.train(req)
	}()
}

func (u *uiState) train(req svmdemo.TrainingRequest) error {
	res, err := u.service.Train(context.Background(), req, func(done, total int) {
		u.setProgressValue(float64(done))
		if done%50 == 0 || done == total {
			u.setStatus(fmt.Sprintf("学習中 %d/%d", done, total))
		}
	})
	if errors.Is(err, svmdemo.ErrTrainingInProgress) {
		// the running job still owns the buttons and the progress bar
		u.setStatus("学習中です")
		return err
	}
	u.setBusy(false)
	u.hideProgress()
	if err != nil {
		fyne.Do(func() {
			dialog.ShowError(err, u.w)
		})
		u.setStatus("エラー")
		return err
	}
	if res.Points == 0 {
		u.setStatus("点がありません")
		return nil
	}
	u.setStatus(fmt.Sprintf("完了 SV:%d 精度:%.1f%% (%.1fs)", len(res.SupportVectors), res.Accuracy, res.Elapsed.Seconds()))
	return nil
}

func (u *uiState) rememberForm() {
	u.cfg.Form = svmdemo.FormConfig{
		Kernel: u.selectedKernel(),
		Cost:   u.costEntry.Text,
		Gamma:  u.gammaEntry.Text,
		Degree: u.selectedDegree(),
	}
	u.cfg = u.service.UpdateConfig(u.cfg)
	if err := u.saveConfig(); err != nil {
		u.logf("設定の保存に失敗しました: %v", err)
	}
}

func (u *uiState) saveConfig() error {
	return svmdemo.SaveConfig(u.cfgPath, u.cfg)
}

func (u *uiState) onClear() {
	if !u.service.Clear() {
		u.setStatus("学習中はクリアできません")
		return
	}
	u.setProgressValue(0)
	u.setStatus("クリアしました")
}

func (u *uiState) onLoadPoints() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		points, err := svmdemo.ReadPoints(rc)
		if err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		if err := u.loadPoints(rc.URI().Path(), points); err != nil {
			dialog.ShowError(err, u.w)
		}
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	fd.Show()
}

func (u *uiState) loadPoints(path string, points []svmdemo.LabeledPoint) error {
	kept, err := u.service.ReplacePoints(points)
	if err != nil {
		return err
	}
	u.cfg.PointsPath = path
	u.cfg = u.service.UpdateConfig(u.cfg)
	u.logf("点を読み込みました: %s (%d件)", filepath.Base(path), kept)
	u.setStatus(fmt.Sprintf("読込 %d件", kept))
	return nil
}

// restorePoints reloads the points file used in the previous session.
func (u *uiState) restorePoints() {
	path := strings.TrimSpace(u.cfg.PointsPath)
	if path == "" {
		return
	}
	points, err := svmdemo.LoadPointsFile(path)
	if err != nil {
		u.logf("前回の点を読み込めませんでした: %v", err)
		return
	}
	if err := u.loadPoints(path, points); err != nil {
		u.logf("前回の点を読み込めませんでした: %v", err)
	}
}

func (u *uiState) onSavePoints() {
	points := u.service.Points()
	if len(points) == 0 {
		dialog.ShowInformation("情報", "保存する点がありません", u.w)
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		if err := svmdemo.WritePoints(uc, points); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.cfg.PointsPath = uc.URI().Path()
		u.cfg = u.service.UpdateConfig(u.cfg)
		u.logf("点を保存しました: %s (%d件)", filepath.Base(uc.URI().Path()), len(points))
	}, u.w)
	fd.SetFileName("points.csv")
	fd.Show()
}

func (u *uiState) onExportImage() {
	img := u.currentImage()
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		if err := svmdemo.WritePNG(uc, img); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.logf("画像を出力しました: %s", filepath.Base(uc.URI().Path()))
	}, u.w)
	fd.SetFileName("svm.png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fd.Show()
}

func (u *uiState) onExportPlot() {
	width, height := u.service.Bounds()
	p, err := svmdemo.PlotDemo(u.service.Snapshot(), width, height)
	if err != nil {
		dialog.ShowError(err, u.w)
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		format := strings.TrimPrefix(strings.ToLower(uc.URI().Extension()), ".")
		if format == "" {
			format = "png"
		}
		if err := svmdemo.WritePlot(uc, p, format); err != nil {
			dialog.ShowError(err, u.w)
			return
		}
		u.logf("グラフを出力しました: %s", filepath.Base(uc.URI().Path()))
	}, u.w)
	fd.SetFileName("svm_plot.png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".svg", ".pdf"}))
	fd.Show()
}

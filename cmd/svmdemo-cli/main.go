package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yashubustudio/svmdemo/svmdemo"
)

type cliOptions struct {
	configPath     string
	pointsPath     string
	kernel         string
	cost           string
	gamma          string
	degree         int
	outputPath     string
	outputDir      string
	plotPath       string
	search         bool
	searchPlotPath string
	folds          int
	stdout         bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("svmdemo-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("svmdemo-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.pointsPath, "points", "", "CSV file with label,x,y rows")
	flag.StringVar(&opts.kernel, "kernel", "", "Kernel: linear, rbf, polynomial or sigmoid (default from config)")
	flag.StringVar(&opts.cost, "cost", "", "Cost parameter C (default from config)")
	flag.StringVar(&opts.gamma, "gamma", "", "Gamma for rbf/sigmoid (default from config)")
	flag.IntVar(&opts.degree, "degree", -1, "Degree for polynomial, 0..30 (default from config)")
	flag.StringVar(&opts.outputPath, "output", "", "PNG file for the painted canvas (default uses --output-dir/svm_*.png)")
	flag.StringVar(&opts.outputDir, "output-dir", "png", "Directory where images are written when --output is omitted")
	flag.StringVar(&opts.plotPath, "plot", "", "Optional plot file (.png, .svg, .pdf) with regions, points and support vectors")
	flag.BoolVar(&opts.search, "search", false, "Pick cost and gamma for an RBF kernel by grid search before training")
	flag.StringVar(&opts.searchPlotPath, "search-plot", "", "Optional heat map of the grid-search scores")
	flag.IntVar(&opts.folds, "folds", 3, "Every n-th point is held out for validation during --search")
	flag.BoolVar(&opts.stdout, "stdout", false, "Print a training summary to STDOUT")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --points FILE [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.pointsPath = strings.TrimSpace(opts.pointsPath)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)
	opts.plotPath = strings.TrimSpace(opts.plotPath)
	opts.searchPlotPath = strings.TrimSpace(opts.searchPlotPath)

	if opts.pointsPath == "" {
		flag.Usage()
		return opts, errors.New("missing required --points file")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := svmdemo.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	req, err := resolveRequest(cfg.Form, opts)
	if err != nil {
		return err
	}

	points, err := svmdemo.LoadPointsFile(opts.pointsPath)
	if err != nil {
		return fmt.Errorf("read points: %w", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	trainer := svmdemo.NewSVMTrainer()
	service, err := svmdemo.NewService(trainer, cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	kept, err := service.ReplacePoints(points)
	if err != nil {
		return fmt.Errorf("load points: %w", err)
	}
	if kept == 0 {
		return fmt.Errorf("%s: %w", filepath.Base(opts.pointsPath), svmdemo.ErrNoPoints)
	}

	ctx := context.Background()
	if opts.search {
		best, err := search(ctx, trainer, service.Examples(), opts)
		if err != nil {
			return err
		}
		req = best
	}

	res, err := service.Train(ctx, req, nil)
	if err != nil {
		return err
	}

	outputPath, err := resolveOutputPath(opts.outputPath, opts.outputDir)
	if err != nil {
		return err
	}
	snap := service.Snapshot()
	width, height := service.Bounds()
	if snap.Raster == nil {
		return errors.New("training produced no decision raster")
	}
	img := svmdemo.Render(snap, width, height, snap.Raster.Image())
	if err := svmdemo.SavePNGFile(outputPath, img); err != nil {
		return err
	}
	fmt.Printf("学習結果を %s に保存しました\n", outputPath)

	if opts.plotPath != "" {
		p, err := svmdemo.PlotDemo(snap, width, height)
		if err != nil {
			return err
		}
		if err := svmdemo.SavePlot(p, opts.plotPath); err != nil {
			return err
		}
		fmt.Printf("グラフを %s に保存しました\n", opts.plotPath)
	}

	if opts.stdout {
		printSummary(res, snap)
	}
	return nil
}

// resolveRequest merges command-line values over the saved form.
func resolveRequest(form svmdemo.FormConfig, opts cliOptions) (svmdemo.TrainingRequest, error) {
	kernel := string(form.Kernel)
	if strings.TrimSpace(opts.kernel) != "" {
		kernel = opts.kernel
	}
	cost := form.Cost
	if strings.TrimSpace(opts.cost) != "" {
		cost = opts.cost
	}
	gamma := form.Gamma
	if strings.TrimSpace(opts.gamma) != "" {
		gamma = opts.gamma
	}
	degree := form.Degree
	if opts.degree >= 0 {
		degree = opts.degree
	}
	req, err := svmdemo.ParseTrainingRequest(kernel, cost, gamma, degree)
	if err != nil {
		return svmdemo.TrainingRequest{}, fmt.Errorf("parameters: %w", err)
	}
	return req, nil
}

func search(ctx context.Context, trainer svmdemo.Trainer, examples []svmdemo.Example, opts cliOptions) (svmdemo.TrainingRequest, error) {
	train, validation := svmdemo.SplitExamples(examples, opts.folds)
	fmt.Printf("グリッド探索: 学習 %d件 / 検証 %d件\n", len(train), len(validation))
	res, err := svmdemo.GridSearch(ctx, trainer, train, validation, svmdemo.SearchOptions{
		Report: func(req svmdemo.TrainingRequest, score svmdemo.Evaluator) {
			fmt.Printf("  %s -> %s\n", req, score)
		},
	})
	if err != nil {
		return svmdemo.TrainingRequest{}, err
	}
	fmt.Printf("最良: %s (%s)\n", res.Best, res.BestScore)
	if opts.searchPlotPath != "" {
		p, err := svmdemo.PlotSearch(res)
		if err != nil {
			return svmdemo.TrainingRequest{}, err
		}
		if err := svmdemo.SavePlot(p, opts.searchPlotPath); err != nil {
			return svmdemo.TrainingRequest{}, err
		}
		fmt.Printf("探索結果を %s に保存しました\n", opts.searchPlotPath)
	}
	return res.Best, nil
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "png"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	filename := fmt.Sprintf("svm_%s.png", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func printSummary(res svmdemo.TrainResult, snap svmdemo.Snapshot) {
	fmt.Println()
	fmt.Println("==== 学習結果 ====")
	fmt.Printf("パラメータ: %s\n", res.Request)
	fmt.Printf("点: %d件 / 学習時間: %.2fs\n", res.Points, res.Elapsed.Seconds())
	fmt.Printf("モデル: %s\n", res.Model)
	fmt.Printf("学習データ精度: %.2f%%\n", res.Accuracy)
	if snap.Raster != nil {
		fmt.Printf("領域: A %d px / B %d px\n", snap.Raster.Count(svmdemo.LabelA), snap.Raster.Count(svmdemo.LabelB))
	}
	fmt.Println("サポートベクター:")
	for _, idx := range res.SupportVectors {
		p := snap.Points[idx]
		fmt.Printf("  - #%d %s (%d, %d)\n", idx, p.Label, p.X, p.Y)
	}
}

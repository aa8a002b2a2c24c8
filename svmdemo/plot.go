package svmdemo

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotSize is the default size of saved plots.
var PlotSize = struct{ Width, Height vg.Length }{Width: 8 * vg.Inch, Height: 6 * vg.Inch}

// PlotDemo draws the decision regions, the points of both classes and the
// support vectors in canvas coordinates (y pointing up).
func PlotDemo(snap Snapshot, width, height int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Support-Vector Machines"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.X.Min, p.X.Max = 0, float64(width)
	p.Y.Min, p.Y.Max = 0, float64(height)

	if snap.Raster != nil {
		p.Add(plotter.NewImage(snap.Raster.Image(), 0, 0, float64(width), float64(height)))
	}

	if len(snap.SupportVectors) > 0 {
		xys := make(plotter.XYs, 0, len(snap.SupportVectors))
		for _, idx := range snap.SupportVectors {
			if idx < 0 || idx >= len(snap.Points) {
				continue
			}
			pt := snap.Points[idx]
			xys = append(xys, plotter.XY{X: float64(pt.X), Y: float64(height - pt.Y)})
		}
		sv, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("support vector scatter: %w", err)
		}
		sv.GlyphStyle.Color = SupportColour
		sv.GlyphStyle.Shape = draw.CircleGlyph{}
		sv.GlyphStyle.Radius = vg.Points(7)
		p.Add(sv)
		p.Legend.Add("support vectors", sv)
	}

	for _, label := range Labels {
		var xys plotter.XYs
		for _, pt := range snap.Points {
			if pt.Label == label {
				xys = append(xys, plotter.XY{X: float64(pt.X), Y: float64(height - pt.Y)})
			}
		}
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("scatter %s: %w", label, err)
		}
		s.GlyphStyle.Color = PointColour(label)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add("class "+label.String()+" ("+label.ColourName()+")", s)
	}
	return p, nil
}

type searchGrid struct {
	r *SearchResult
}

func (g searchGrid) Dims() (c, r int) { return len(g.r.Costs), len(g.r.Gammas) }
func (g searchGrid) Z(c, r int) float64 { return g.r.Scores[r][c] }
func (g searchGrid) X(c int) float64 { return math.Log2(g.r.Costs[c]) }
func (g searchGrid) Y(r int) float64 { return math.Log2(g.r.Gammas[r]) }

// PlotSearch renders grid-search scores as a heat map over log2(cost) and
// log2(gamma).
func PlotSearch(res *SearchResult) (*plot.Plot, error) {
	if res == nil || len(res.Costs) < 2 || len(res.Gammas) < 2 {
		return nil, errors.New("heat map needs at least two costs and two gammas")
	}
	p := plot.New()
	p.Title.Text = "Cross-Validation Performance"
	p.X.Label.Text = "log2(cost)"
	p.Y.Label.Text = "log2(gamma)"
	p.Add(plotter.NewHeatMap(searchGrid{r: res}, palette.Heat(12, 1)))
	return p, nil
}

// SavePlot writes p to path; the format follows the file extension.
func SavePlot(p *plot.Plot, path string) error {
	if err := p.Save(PlotSize.Width, PlotSize.Height, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// WritePlot encodes p to w in the given format ("png", "svg", "pdf", ...).
func WritePlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(PlotSize.Width, PlotSize.Height, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}

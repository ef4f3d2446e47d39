package algorithms

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

const plotMargin = 10

// RenderHistogram draws every series of h as a line plot on a white canvas.
// Heights are normalised to the tallest bin across all series.
func RenderHistogram(h *Histogram, width, height int) (gocv.Mat, error) {
	if h == nil || len(h.Series) == 0 {
		return gocv.NewMat(), fmt.Errorf("histogram has no series")
	}
	if width <= 2*plotMargin || height <= 2*plotMargin {
		return gocv.NewMat(), fmt.Errorf("plot size too small: %dx%d", width, height)
	}

	canvas := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), height, width, gocv.MatTypeCV8UC3)

	peak := h.Peak()
	if peak == 0 {
		return canvas, nil
	}

	plotW := float64(width - 2*plotMargin)
	plotH := float64(height - 2*plotMargin)
	baseline := height - plotMargin

	axis := color.RGBA{128, 128, 128, 255}
	if err := gocv.Line(&canvas, image.Pt(plotMargin, baseline), image.Pt(width-plotMargin, baseline), axis, 1); err != nil {
		canvas.Close()
		return gocv.NewMat(), fmt.Errorf("axis drawing failed: %w", err)
	}

	for _, s := range h.Series {
		prev := image.Point{}
		for i, count := range s.Counts {
			pt := image.Pt(
				plotMargin+int(float64(i)*plotW/float64(HistogramBins-1)),
				baseline-int(float64(count)*plotH/float64(peak)),
			)
			if i > 0 {
				if err := gocv.Line(&canvas, prev, pt, s.Colour, 1); err != nil {
					canvas.Close()
					return gocv.NewMat(), fmt.Errorf("series %s drawing failed: %w", s.Label, err)
				}
			}
			prev = pt
		}
	}
	return canvas, nil
}

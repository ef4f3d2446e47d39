// Frequency tables over 8-bit channel values
package algorithms

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// HistogramBins is the number of bins, one per 8-bit value.
const HistogramBins = 256

// histogramBandPixels caps the pixels passed to one CalcHist call. OpenCV returns
// counts as float32, which is exact only up to 2^24.
var histogramBandPixels = 1 << 24

// Series is one channel's bin counts.
type Series struct {
	Label  string
	Colour color.RGBA
	Counts [HistogramBins]int
}

// Total returns the sum of all bins.
func (s *Series) Total() int {
	total := 0
	for _, c := range s.Counts {
		total += c
	}
	return total
}

// Histogram holds one series for luma or three for B, G, R.
type Histogram struct {
	Title  string
	Series []Series
}

// Peak returns the largest bin count across every series.
func (h *Histogram) Peak() int {
	peak := 0
	for i := range h.Series {
		for _, c := range h.Series[i].Counts {
			if c > peak {
				peak = c
			}
		}
	}
	return peak
}

// LumaHistogramAlgorithm counts luma values
type LumaHistogramAlgorithm struct{}

func NewLumaHistogram() *LumaHistogramAlgorithm {
	return &LumaHistogramAlgorithm{}
}

func (l *LumaHistogramAlgorithm) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(input, &gray, gocv.ColorBGRToGray); err != nil {
		return Outcome{}, fmt.Errorf("grayscale conversion failed: %w", err)
	}

	series, err := channelSeries(gray, "Luma", color.RGBA{0, 0, 0, 255})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Histogram: &Histogram{Title: "Histogram", Series: []Series{series}}}, nil
}

func (l *LumaHistogramAlgorithm) GetName() string {
	return "Histogram"
}

func (l *LumaHistogramAlgorithm) GetDescription() string {
	return "256-bin frequency count of luma values"
}

func (l *LumaHistogramAlgorithm) GetParameterInfo() []ParameterInfo {
	return histogramParameterInfo()
}

// ColorHistogramAlgorithm counts each channel independently
type ColorHistogramAlgorithm struct{}

func NewColorHistogram() *ColorHistogramAlgorithm {
	return &ColorHistogramAlgorithm{}
}

func (c *ColorHistogramAlgorithm) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	channels := gocv.Split(input)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	// OpenCV stores channels in BGR order
	styles := []struct {
		label  string
		colour color.RGBA
	}{
		{"Blue", color.RGBA{0, 0, 255, 255}},
		{"Green", color.RGBA{0, 160, 0, 255}},
		{"Red", color.RGBA{255, 0, 0, 255}},
	}

	hist := &Histogram{Title: "Color Histogram"}
	for i, ch := range channels {
		series, err := channelSeries(ch, styles[i].label, styles[i].colour)
		if err != nil {
			return Outcome{}, err
		}
		hist.Series = append(hist.Series, series)
	}
	return Outcome{Histogram: hist}, nil
}

func (c *ColorHistogramAlgorithm) GetName() string {
	return "Color Histogram"
}

func (c *ColorHistogramAlgorithm) GetDescription() string {
	return "256-bin frequency count per colour channel"
}

func (c *ColorHistogramAlgorithm) GetParameterInfo() []ParameterInfo {
	return histogramParameterInfo()
}

// channelSeries counts a single-channel Mat in row bands and sums the bands.
func channelSeries(channel gocv.Mat, label string, colour color.RGBA) (Series, error) {
	series := Series{Label: label, Colour: colour}

	rows, cols := channel.Rows(), channel.Cols()
	bandRows := histogramBandPixels / cols
	if bandRows < 1 {
		bandRows = 1
	}

	for top := 0; top < rows; top += bandRows {
		bottom := top + bandRows
		if bottom > rows {
			bottom = rows
		}
		band := channel.Region(image.Rect(0, top, cols, bottom))
		err := addBandCounts(band, &series)
		band.Close()
		if err != nil {
			return Series{}, err
		}
	}
	return series, nil
}

func addBandCounts(band gocv.Mat, series *Series) error {
	hist := gocv.NewMat()
	defer hist.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	err := gocv.CalcHist([]gocv.Mat{band}, []int{0}, mask, &hist, []int{HistogramBins}, []float64{0, HistogramBins}, false)
	if err != nil {
		return fmt.Errorf("histogram calculation failed: %w", err)
	}

	for i := 0; i < HistogramBins; i++ {
		series.Counts[i] += int(hist.GetFloatAt(i, 0))
	}
	return nil
}

func histogramParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "bins", Value: HistogramBins, Description: "One bin per channel value"},
		{Name: "range", Value: "[0,256)", Description: "Value range covered by the bins"},
	}
}

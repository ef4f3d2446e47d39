// Fixed-parameter image operations backed by OpenCV
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Operation identifiers, stable across releases and used as dispatch keys.
const (
	OpGrayscale          = "grayscale"
	OpIncreaseContrast   = "increase_contrast"
	OpDecreaseContrast   = "decrease_contrast"
	OpIncreaseBrightness = "increase_brightness"
	OpDecreaseBrightness = "decrease_brightness"
	OpAverageFilter      = "average_filter"
	OpMedianFilter       = "median_filter"
	OpMinFilter          = "min_filter"
	OpMaxFilter          = "max_filter"
	OpCannyEdges         = "canny_edges"
	OpContours           = "contours"
	OpLumaHistogram      = "histogram"
	OpColorHistogram     = "color_histogram"
)

// Algorithm defines the interface for image processing algorithms
type Algorithm interface {
	Apply(input gocv.Mat) (Outcome, error)
	GetName() string
	GetDescription() string
	GetParameterInfo() []ParameterInfo
}

// ParameterInfo describes a fixed parameter for display
type ParameterInfo struct {
	Name        string      `json:"name"`
	Value       interface{} `json:"value"`
	Description string      `json:"description"`
}

// Outcome is what an algorithm produced. Exactly one field is set.
type Outcome struct {
	// Image replaces the buffer contents.
	Image *gocv.Mat
	// Histogram is a derived frequency table; the buffer is untouched.
	Histogram *Histogram
	// Contours carries the edge map and contour count; the buffer is untouched.
	Contours *ContourSummary
}

// Close releases any Mat held by the outcome.
func (o *Outcome) Close() {
	if o.Image != nil {
		o.Image.Close()
		o.Image = nil
	}
	if o.Contours != nil {
		o.Contours.Close()
		o.Contours = nil
	}
}

func imageOutcome(mat gocv.Mat) Outcome {
	return Outcome{Image: &mat}
}

// Entry is one row of the catalog.
type Entry struct {
	ID        string
	Category  string
	Algorithm Algorithm
}

// Catalog is the ordered dispatch table from operation id to algorithm.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// NewCatalog returns the catalog populated with every built-in operation.
func NewCatalog() *Catalog {
	c := &Catalog{index: make(map[string]int)}

	c.Register(OpGrayscale, "Point", NewGrayscaleConversion())
	c.Register(OpIncreaseContrast, "Point", NewLinearRemap("Increase Contrast", "Scale every channel by 1.2", 1.2, 0))
	c.Register(OpDecreaseContrast, "Point", NewLinearRemap("Decrease Contrast", "Scale every channel by 0.8", 0.8, 0))
	c.Register(OpIncreaseBrightness, "Point", NewLinearRemap("Increase Brightness", "Add 10 to every channel", 1.0, 10))
	c.Register(OpDecreaseBrightness, "Point", NewLinearRemap("Decrease Brightness", "Subtract 10 from every channel", 1.0, -10))

	c.Register(OpAverageFilter, "Filters", NewAverageFilter())
	c.Register(OpMedianFilter, "Filters", NewMedianFilter())

	c.Register(OpMinFilter, "Morphology", NewErosion())
	c.Register(OpMaxFilter, "Morphology", NewDilation())

	c.Register(OpCannyEdges, "Edges", NewCannyEdges())
	c.Register(OpContours, "Edges", NewContourDetection())

	c.Register(OpLumaHistogram, "Analysis", NewLumaHistogram())
	c.Register(OpColorHistogram, "Analysis", NewColorHistogram())

	return c
}

// Register adds or replaces the algorithm under id. New ids keep insertion order.
func (c *Catalog) Register(id, category string, algorithm Algorithm) {
	if i, exists := c.index[id]; exists {
		c.entries[i] = Entry{ID: id, Category: category, Algorithm: algorithm}
		return
	}
	c.index[id] = len(c.entries)
	c.entries = append(c.entries, Entry{ID: id, Category: category, Algorithm: algorithm})
}

func (c *Catalog) Get(id string) (Algorithm, bool) {
	i, exists := c.index[id]
	if !exists {
		return nil, false
	}
	return c.entries[i].Algorithm, true
}

func (c *Catalog) Apply(id string, input gocv.Mat) (Outcome, error) {
	algorithm, exists := c.Get(id)
	if !exists {
		return Outcome{}, fmt.Errorf("algorithm not found: %s", id)
	}
	return algorithm.Apply(input)
}

// Entries returns the catalog rows in registration order.
func (c *Catalog) Entries() []Entry {
	result := make([]Entry, len(c.entries))
	copy(result, c.entries)
	return result
}

// Categories groups ids by category, categories in first-seen order.
func (c *Catalog) Categories() ([]string, map[string][]string) {
	var order []string
	groups := make(map[string][]string)
	for _, e := range c.entries {
		if _, seen := groups[e.Category]; !seen {
			order = append(order, e.Category)
		}
		groups[e.Category] = append(groups[e.Category], e.ID)
	}
	return order, groups
}

func checkInput(input gocv.Mat) error {
	if input.Empty() {
		return fmt.Errorf("input image is empty")
	}
	if input.Channels() != 3 {
		return fmt.Errorf("expected 3-channel image, got %d channels", input.Channels())
	}
	return nil
}

package core

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-processing-app/internal/algorithms"
)

// State is the controller's load state.
type State int

const (
	StateEmpty State = iota
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Presenter displays controller output. Implementations must not keep the Mats passed in.
type Presenter interface {
	Render(img gocv.Mat)
	ShowHistogram(h *algorithms.Histogram)
	ShowContours(edges gocv.Mat, count int)
}

// Result reports what Apply did.
type Result struct {
	// Skipped is set when no image was loaded and nothing ran.
	Skipped bool
	// Replaced is set when the buffer now holds the transformed image.
	Replaced  bool
	Histogram *algorithms.Histogram
	// ContourCount is only meaningful for the contour operation.
	ContourCount int
}

// Controller wires named operations to the image buffer.
type Controller struct {
	buffer    *ImageBuffer
	catalog   *algorithms.Catalog
	presenter Presenter
	logger    *logrus.Logger

	contourEdges gocv.Mat
	contourCount int
	contourText  string
	hasContours  bool
}

func NewController(codec Codec, catalog *algorithms.Catalog, logger *logrus.Logger) *Controller {
	return &Controller{
		buffer:       NewImageBuffer(codec, logger),
		catalog:      catalog,
		logger:       logger,
		contourEdges: gocv.NewMat(),
	}
}

// SetPresenter attaches the display. A nil presenter is allowed.
func (c *Controller) SetPresenter(p Presenter) {
	c.presenter = p
}

func (c *Controller) State() State {
	if c.buffer.HasImage() {
		return StateLoaded
	}
	return StateEmpty
}

// Operations returns the catalog entries in display order.
func (c *Controller) Operations() []algorithms.Entry {
	return c.catalog.Entries()
}

// Categories returns category names in display order and the ids in each.
func (c *Controller) Categories() ([]string, map[string][]string) {
	return c.catalog.Categories()
}

func (c *Controller) Metadata() ImageMetadata {
	return c.buffer.Metadata()
}

func (c *Controller) Path() string {
	return c.buffer.Path()
}

// Current returns a clone of the buffer contents. The caller closes it.
func (c *Controller) Current() (gocv.Mat, bool) {
	return c.buffer.Current()
}

// Load replaces the buffer with the image at path.
func (c *Controller) Load(path string) error {
	if err := c.buffer.Load(path); err != nil {
		c.logger.WithError(err).WithField("filepath", path).Error("Failed to load image")
		return err
	}

	c.clearContours()
	c.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    c.buffer.Metadata().Width,
		"height":   c.buffer.Metadata().Height,
	}).Info("Image loaded")

	c.render()
	return nil
}

// Apply runs the operation id on the buffer. With no image loaded it does nothing
// and returns a skipped result without error.
func (c *Controller) Apply(id string) (Result, error) {
	algorithm, exists := c.catalog.Get(id)
	if !exists {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownOperation, id)
	}

	input, ok := c.buffer.Current()
	defer input.Close()
	if !ok {
		c.logger.WithField("operation", id).Debug("No image loaded, operation ignored")
		return Result{Skipped: true}, nil
	}

	outcome, err := c.catalog.Apply(id, input)
	if err != nil {
		c.logger.WithError(err).WithField("operation", id).Error("Operation failed")
		return Result{}, fmt.Errorf("%s: %w", algorithm.GetName(), err)
	}
	defer outcome.Close()

	switch {
	case outcome.Image != nil:
		if err := c.buffer.Replace(*outcome.Image); err != nil {
			return Result{}, fmt.Errorf("%s: %w", algorithm.GetName(), err)
		}
		c.logger.WithField("operation", id).Info("Operation applied")
		c.render()
		return Result{Replaced: true}, nil

	case outcome.Histogram != nil:
		c.logger.WithFields(logrus.Fields{
			"operation": id,
			"series":    len(outcome.Histogram.Series),
		}).Info("Histogram computed")
		if c.presenter != nil {
			c.presenter.ShowHistogram(outcome.Histogram)
		}
		return Result{Histogram: outcome.Histogram}, nil

	case outcome.Contours != nil:
		c.storeContours(outcome.Contours)
		c.logger.WithFields(logrus.Fields{
			"operation": id,
			"contours":  c.contourCount,
		}).Info("Contours detected")
		if c.presenter != nil {
			c.presenter.ShowContours(c.contourEdges, c.contourCount)
		}
		return Result{ContourCount: c.contourCount}, nil
	}

	return Result{}, fmt.Errorf("%s: produced no output", algorithm.GetName())
}

// Save writes the buffer to path.
func (c *Controller) Save(path string) error {
	if err := c.buffer.Save(path); err != nil {
		c.logger.WithError(err).WithField("filepath", path).Error("Failed to save image")
		return err
	}
	c.logger.WithField("filepath", path).Info("Image saved")
	return nil
}

// LastContours returns the count and label of the most recent contour detection.
func (c *Controller) LastContours() (int, string, bool) {
	if !c.hasContours {
		return 0, "", false
	}
	return c.contourCount, c.contourText, true
}

// ContourEdges returns a clone of the most recent contour edge map. The caller closes it.
func (c *Controller) ContourEdges() (gocv.Mat, bool) {
	if !c.hasContours {
		return gocv.NewMat(), false
	}
	return c.contourEdges.Clone(), true
}

// Close releases every image held by the controller
func (c *Controller) Close() {
	c.clearContours()
	c.buffer.Close()
}

func (c *Controller) storeContours(s *algorithms.ContourSummary) {
	c.contourEdges.Close()
	c.contourEdges = s.Edges.Clone()
	c.contourCount = s.Count
	c.contourText = s.Text()
	c.hasContours = true
}

func (c *Controller) clearContours() {
	c.contourEdges.Close()
	c.contourEdges = gocv.NewMat()
	c.contourCount = 0
	c.contourText = ""
	c.hasContours = false
}

func (c *Controller) render() {
	if c.presenter == nil {
		return
	}
	current, ok := c.buffer.Current()
	defer current.Close()
	if ok {
		c.presenter.Render(current)
	}
}

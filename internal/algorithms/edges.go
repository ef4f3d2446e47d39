// Edge and contour detection
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

const (
	cannyLowThreshold  = 50
	cannyHighThreshold = 150
)

// CannyEdges produces a binary edge map stored as three channels
type CannyEdges struct{}

func NewCannyEdges() *CannyEdges {
	return &CannyEdges{}
}

func (c *CannyEdges) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	edges, err := detectEdges(input)
	if err != nil {
		return Outcome{}, err
	}
	defer edges.Close()

	output, err := expandGray(edges)
	if err != nil {
		return Outcome{}, err
	}
	return imageOutcome(output), nil
}

func (c *CannyEdges) GetName() string {
	return "Canny Edges"
}

func (c *CannyEdges) GetDescription() string {
	return "Canny edge detection on the luma channel"
}

func (c *CannyEdges) GetParameterInfo() []ParameterInfo {
	return cannyParameterInfo()
}

// ContourSummary is the result of contour detection.
type ContourSummary struct {
	// Edges is the 3-channel edge map the contours were traced on.
	Edges gocv.Mat
	Count int
}

// Text is the label shown next to the image.
func (s *ContourSummary) Text() string {
	return fmt.Sprintf("Contours: %d", s.Count)
}

func (s *ContourSummary) Close() {
	s.Edges.Close()
}

// ContourDetection counts every contour (outer and inner) in the Canny edge map
type ContourDetection struct{}

func NewContourDetection() *ContourDetection {
	return &ContourDetection{}
}

func (c *ContourDetection) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	edges, err := detectEdges(input)
	if err != nil {
		return Outcome{}, err
	}
	defer edges.Close()

	contours := gocv.FindContours(edges, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer contours.Close()
	count := contours.Size()

	display, err := expandGray(edges)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Contours: &ContourSummary{Edges: display, Count: count}}, nil
}

func (c *ContourDetection) GetName() string {
	return "Contour Detection"
}

func (c *ContourDetection) GetDescription() string {
	return "Count contours traced on the Canny edge map"
}

func (c *ContourDetection) GetParameterInfo() []ParameterInfo {
	return append(cannyParameterInfo(),
		ParameterInfo{Name: "mode", Value: "list", Description: "Retrieve all contours without hierarchy"},
		ParameterInfo{Name: "approximation", Value: "simple", Description: "Compress straight segments to end points"},
	)
}

// detectEdges returns the single-channel Canny edge map of a BGR image.
func detectEdges(input gocv.Mat) (gocv.Mat, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(input, &gray, gocv.ColorBGRToGray); err != nil {
		return gocv.NewMat(), fmt.Errorf("grayscale conversion failed: %w", err)
	}

	edges := gocv.NewMat()
	if err := gocv.Canny(gray, &edges, cannyLowThreshold, cannyHighThreshold); err != nil {
		edges.Close()
		return gocv.NewMat(), fmt.Errorf("canny edge detection failed: %w", err)
	}
	return edges, nil
}

func cannyParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "low_threshold", Value: cannyLowThreshold, Description: "Hysteresis lower bound"},
		{Name: "high_threshold", Value: cannyHighThreshold, Description: "Hysteresis upper bound"},
	}
}

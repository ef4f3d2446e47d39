// Neighbourhood smoothing filters
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	averageKernelSize = 3
	medianWindowSize  = 3
)

// AverageFilter implements a normalised box blur
type AverageFilter struct{}

// NewAverageFilter creates a new box blur algorithm
func NewAverageFilter() *AverageFilter {
	return &AverageFilter{}
}

func (a *AverageFilter) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	output := gocv.NewMat()
	if err := gocv.Blur(input, &output, image.Pt(averageKernelSize, averageKernelSize)); err != nil {
		output.Close()
		return Outcome{}, fmt.Errorf("average filter failed: %w", err)
	}
	return imageOutcome(output), nil
}

func (a *AverageFilter) GetName() string {
	return "Average Filter"
}

func (a *AverageFilter) GetDescription() string {
	return "Box blur with equal weights"
}

func (a *AverageFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "kernel_size", Value: averageKernelSize, Description: "Kernel is kernel_size x kernel_size, weights 1/9"},
	}
}

// MedianFilter implements a per-channel median filter
type MedianFilter struct{}

// NewMedianFilter creates a new median filter algorithm
func NewMedianFilter() *MedianFilter {
	return &MedianFilter{}
}

func (m *MedianFilter) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	output := gocv.NewMat()
	if err := gocv.MedianBlur(input, &output, medianWindowSize); err != nil {
		output.Close()
		return Outcome{}, fmt.Errorf("median filter failed: %w", err)
	}
	return imageOutcome(output), nil
}

func (m *MedianFilter) GetName() string {
	return "Median Filter"
}

func (m *MedianFilter) GetDescription() string {
	return "Median filter to remove salt-and-pepper noise"
}

func (m *MedianFilter) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "window_size", Value: medianWindowSize, Description: "Side of the square neighbourhood"},
	}
}

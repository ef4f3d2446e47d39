// Morphological min/max filters
package algorithms

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

const (
	morphKernelSize = 3
	morphIterations = 3
)

// Erosion implements the min filter as repeated morphological erosion
type Erosion struct{}

// NewErosion creates a new erosion algorithm
func NewErosion() *Erosion {
	return &Erosion{}
}

func (e *Erosion) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	output, err := iterateMorph(input, gocv.Erode)
	if err != nil {
		return Outcome{}, fmt.Errorf("min filter failed: %w", err)
	}
	return imageOutcome(output), nil
}

func (e *Erosion) GetName() string {
	return "Min Filter"
}

func (e *Erosion) GetDescription() string {
	return "Morphological erosion, shrinks bright regions"
}

func (e *Erosion) GetParameterInfo() []ParameterInfo {
	return morphParameterInfo()
}

// Dilation implements the max filter as repeated morphological dilation
type Dilation struct{}

// NewDilation creates a new dilation algorithm
func NewDilation() *Dilation {
	return &Dilation{}
}

func (d *Dilation) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	output, err := iterateMorph(input, gocv.Dilate)
	if err != nil {
		return Outcome{}, fmt.Errorf("max filter failed: %w", err)
	}
	return imageOutcome(output), nil
}

func (d *Dilation) GetName() string {
	return "Max Filter"
}

func (d *Dilation) GetDescription() string {
	return "Morphological dilation, grows bright regions"
}

func (d *Dilation) GetParameterInfo() []ParameterInfo {
	return morphParameterInfo()
}

type morphFunc func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) error

// iterateMorph applies op morphIterations times with a 3x3 rectangular element,
// the element OpenCV substitutes when none is given.
func iterateMorph(input gocv.Mat, op morphFunc) (gocv.Mat, error) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(morphKernelSize, morphKernelSize))
	defer kernel.Close()

	output := input.Clone()
	for i := 0; i < morphIterations; i++ {
		temp := gocv.NewMat()
		if err := op(output, &temp, kernel); err != nil {
			temp.Close()
			output.Close()
			return gocv.NewMat(), err
		}
		output.Close()
		output = temp
	}
	return output, nil
}

func morphParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "kernel_size", Value: morphKernelSize, Description: "Rectangular structuring element side"},
		{Name: "iterations", Value: morphIterations, Description: "Number of passes"},
	}
}

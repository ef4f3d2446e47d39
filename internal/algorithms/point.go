package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"
)

// GrayscaleConversion converts to luma and back to three identical channels
type GrayscaleConversion struct{}

func NewGrayscaleConversion() *GrayscaleConversion {
	return &GrayscaleConversion{}
}

func (g *GrayscaleConversion) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := gocv.CvtColor(input, &gray, gocv.ColorBGRToGray); err != nil {
		return Outcome{}, fmt.Errorf("grayscale conversion failed: %w", err)
	}

	output, err := expandGray(gray)
	if err != nil {
		return Outcome{}, err
	}
	return imageOutcome(output), nil
}

func (g *GrayscaleConversion) GetName() string {
	return "Grayscale"
}

func (g *GrayscaleConversion) GetDescription() string {
	return "Convert to single-channel luma, stored as three equal channels"
}

func (g *GrayscaleConversion) GetParameterInfo() []ParameterInfo {
	return nil
}

// LinearRemap computes saturate(scale*p + offset) on every channel
type LinearRemap struct {
	name        string
	description string
	scale       float32
	offset      float32
}

func NewLinearRemap(name, description string, scale, offset float32) *LinearRemap {
	return &LinearRemap{
		name:        name,
		description: description,
		scale:       scale,
		offset:      offset,
	}
}

func (l *LinearRemap) Apply(input gocv.Mat) (Outcome, error) {
	if err := checkInput(input); err != nil {
		return Outcome{}, err
	}

	// ConvertScaleAbs would fold negative results back up, so stay on the saturating path.
	output := gocv.NewMat()
	if err := input.ConvertToWithParams(&output, gocv.MatTypeCV8UC3, l.scale, l.offset); err != nil {
		output.Close()
		return Outcome{}, fmt.Errorf("%s failed: %w", l.name, err)
	}
	return imageOutcome(output), nil
}

func (l *LinearRemap) GetName() string {
	return l.name
}

func (l *LinearRemap) GetDescription() string {
	return l.description
}

func (l *LinearRemap) GetParameterInfo() []ParameterInfo {
	return []ParameterInfo{
		{Name: "scale", Value: l.scale, Description: "Multiplier applied to each channel value"},
		{Name: "offset", Value: l.offset, Description: "Added after scaling, result clamped to [0,255]"},
	}
}

// expandGray turns a single-channel Mat into the 3-channel storage format.
func expandGray(gray gocv.Mat) (gocv.Mat, error) {
	output := gocv.NewMat()
	if err := gocv.CvtColor(gray, &output, gocv.ColorGrayToBGR); err != nil {
		output.Close()
		return gocv.NewMat(), fmt.Errorf("channel expansion failed: %w", err)
	}
	return output, nil
}

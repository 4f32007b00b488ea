package classifier

import (
	"context"
	"image"

	"leafscan-backend/pkg/imaging"
)

// LocalClassifier is an in-process colour-statistics model. It looks at the
// share of leaf-green, rust-orange and dark lesion pixels and turns those
// into class scores. No weights, always ready.
type LocalClassifier struct{}

func NewLocalClassifier() *LocalClassifier {
	return &LocalClassifier{}
}

func (l *LocalClassifier) Name() string { return string(ProviderLocal) }

func (l *LocalClassifier) IsReady() bool { return true }

func (l *LocalClassifier) Classify(ctx context.Context, img image.Image) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	s := measure(imaging.Resize(img, InputSize, InputSize))

	rust := s.rust * 12
	scab := s.lesion * 12
	scores := []float64{
		s.green*4 - rust - scab, // healthy
		2 * min(rust, scab),     // multiple_diseases
		rust,                    // rust
		scab,                    // scab
	}
	return FromProbabilities(Softmax(scores))
}

type colourStats struct {
	green  float64
	rust   float64
	lesion float64
}

func measure(img *image.RGBA) colourStats {
	var green, rust, lesion, total int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			r, g, bl := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
			total++

			luma := (299*r + 587*g + 114*bl) / 1000
			switch {
			case luma < 60 && r+g+bl > 30:
				lesion++
			case r > 150 && g > 60 && g < r && bl*10 < g*7:
				rust++
			case g > r && g > bl:
				green++
			}
		}
	}
	if total == 0 {
		return colourStats{}
	}
	n := float64(total)
	return colourStats{
		green:  float64(green) / n,
		rust:   float64(rust) / n,
		lesion: float64(lesion) / n,
	}
}

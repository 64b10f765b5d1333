package capture

import (
	"math"
)

// Level is one analysis sample derived from a frame of audio. Both
// values are bounded to [0, 100].
type Level struct {
	RMS  float64
	Peak float64
}

// AnalyzeFrame computes the level of one frame of little-endian 16-bit
// mono PCM. A trailing odd byte is ignored.
func AnalyzeFrame(frame []byte) Level {
	n := len(frame) / 2
	if n == 0 {
		return Level{}
	}

	var sumSquares float64
	var peak float64
	for i := 0; i < n; i++ {
		s := float64(int16(uint16(frame[2*i]) | uint16(frame[2*i+1])<<8))
		sumSquares += s * s
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}

	const fullScale = 32768.0
	return Level{
		RMS:  clampLevel(math.Sqrt(sumSquares/float64(n)) / fullScale * 100),
		Peak: clampLevel(peak / fullScale * 100),
	}
}

func clampLevel(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

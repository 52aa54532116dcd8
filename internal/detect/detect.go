// Package detect normalizes interchangeable die-face detectors behind one
// contract: image bytes in, Result out. Implementations never return a Go
// error; any failure becomes a non-detection carrying an error string, so
// the control layer has a single shape to serve regardless of backend.
package detect

import "context"

// Result is the normalized detection verdict. Box coordinates are zero when
// the backend does not localize the die. Neighbors and SecondMostLikely are
// debug aids from the face-adjacency reasoning of the LLM detector.
type Result struct {
	Detected   bool    `json:"detected"`
	Value      int     `json:"value"`
	Confidence float64 `json:"confidence"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	W          int     `json:"w"`
	H          int     `json:"h"`

	Neighbors        []int  `json:"neighbors,omitempty"`
	SecondMostLikely int    `json:"second_most_likely,omitempty"`
	Error            string `json:"error,omitempty"`
}

type Detector interface {
	Detect(ctx context.Context, image []byte) Result
}

func failure(msg string) Result {
	return Result{Detected: false, Value: 0, Confidence: 0, Error: msg}
}

// clamp zeroes out values a d20 cannot show.
func clamp(r Result) Result {
	if r.Value < 1 || r.Value > 20 {
		r.Value = 0
		r.Detected = false
	}
	return r
}

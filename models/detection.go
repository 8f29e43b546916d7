package models

// BBox is an axis-aligned bounding box in output-image pixel coordinates.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Detection is one object found by the detector co-process.
type Detection struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
}

// DetectionResult is the decoded response for one frame sent to the
// detector bridge (spec.md §4.9).
type DetectionResult struct {
	Width      *int        `json:"width,omitempty"`
	Height     *int        `json:"height,omitempty"`
	Detections []Detection `json:"detections"`
	Error      string      `json:"error,omitempty"`
}

package views

// StatusResponse is the JSON body served at /status (spec.md §4.10).
type StatusResponse struct {
	FrameCount       uint64 `json:"frame_count"`
	HasFrame         bool   `json:"has_frame"`
	Resolution       string `json:"resolution"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Mode             string `json:"mode"`
	DetectionEnabled bool   `json:"detection_enabled"`
	DetectionCount   *int   `json:"detection_count,omitempty"`
	InstanceID       string `json:"instance_id"`
}

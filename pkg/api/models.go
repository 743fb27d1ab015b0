package api

// PredictRequest is the body of POST /predict.
type PredictRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// PredictResponse is the prediction service's answer. Every field is
// optional; clients must tolerate any of them being absent.
type PredictResponse struct {
	PredictionID     string    `json:"prediction_id,omitempty"`
	NumKernels       *int      `json:"num_kernels,omitempty"`
	MatchedKernelIDs []int     `json:"matched_kernel_ids,omitempty"`
	MatchedScores    []float64 `json:"matched_scores,omitempty"`
}

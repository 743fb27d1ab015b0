package server

import (
	"bytes"
	"encoding/base64"
	"hash/fnv"
	"image"
	"log/slog"
	"math"
	"net/http"
	"sort"

	_ "image/jpeg"
	_ "image/png"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"api-smoke/pkg/api"
)

const (
	// inputSize matches the probe image dimensions; uploads of any size are
	// resized to it before matching.
	inputSize = 224

	kernelBankSize = 16
)

// PredictionService is a stand-in for the real prediction backend. It
// accepts the same wire format and derives a stable fake prediction from
// the image pixels, so the smoke tester can run against it locally.
type PredictionService struct{}

func NewPredictionService() *PredictionService {
	return &PredictionService{}
}

func (s *PredictionService) AddRoutes(r chi.Router) {
	r.Get("/docs", s.docsPage("Docs"))
	r.Get("/redoc", s.docsPage("ReDoc"))
	r.Post("/predict", RestHandler(s.Predict))
}

func (s *PredictionService) docsPage(title string) http.HandlerFunc {
	page := []byte("<!DOCTYPE html><html><head><title>" + title +
		" - object prediction API</title></head><body><h1>" + title +
		"</h1><p>POST /predict with {\"image_base64\": ...}</p></body></html>")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(page) //nolint:errcheck
	}
}

func (s *PredictionService) Predict(r *http.Request) (any, error) {
	req, err := ParseRequest[api.PredictRequest](r)
	if err != nil {
		return nil, err
	}

	if req.ImageBase64 == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "image_base64 is required")
	}

	raw, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid base64 image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, CodedErrorf(http.StatusBadRequest, "unable to decode image: %v", err)
	}

	resized := resize.Resize(inputSize, inputSize, img, resize.Lanczos3)
	ids, scores := matchKernels(resized)

	n := len(ids)
	slog.Info("served prediction", "num_kernels", n)

	return api.PredictResponse{
		PredictionID:     uuid.New().String(),
		NumKernels:       &n,
		MatchedKernelIDs: ids,
		MatchedScores:    scores,
	}, nil
}

// matchKernels produces a deterministic prediction from the pixel data:
// the same image always yields the same kernel ids and scores.
func matchKernels(img image.Image) ([]int, []float64) {
	bounds := img.Bounds()
	h := fnv.New64a()

	var sums [3]uint64
	var px [3]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			px[0], px[1], px[2] = byte(r>>8), byte(g>>8), byte(b>>8)
			h.Write(px[:]) //nolint:errcheck
			sums[0] += uint64(px[0])
			sums[1] += uint64(px[1])
			sums[2] += uint64(px[2])
		}
	}

	pixels := float64(bounds.Dx() * bounds.Dy())
	if pixels == 0 {
		return nil, nil
	}

	seed := h.Sum64()
	n := int(seed%3) + 1

	ids := make([]int, n)
	scores := make([]float64, n)
	for i := range ids {
		ids[i] = int((seed >> (8 * uint(i))) % kernelBankSize)
		mean := float64(sums[i%3]) / (pixels * 255)
		scores[i] = math.Round((0.5+mean/2)*100) / 100
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	return ids, scores
}

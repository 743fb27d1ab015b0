package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"api-smoke/internal/testimage"
	"api-smoke/pkg/api"
)

const (
	DefaultHealthTimeout  = 10 * time.Second
	DefaultPredictTimeout = 30 * time.Second
)

// Client probes a prediction service. Each probe converts every local
// failure (transport error, non-200 status, missing file) into a boolean
// outcome and a report line; nothing propagates past the probe boundary.
type Client struct {
	http           *resty.Client
	out            io.Writer
	healthTimeout  time.Duration
	predictTimeout time.Duration
}

type Options struct {
	// Out receives the human-readable probe report. Defaults to stdout.
	Out            io.Writer
	HealthTimeout  time.Duration
	PredictTimeout time.Duration
}

func New(baseURL string, opts Options) *Client {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = DefaultHealthTimeout
	}
	if opts.PredictTimeout <= 0 {
		opts.PredictTimeout = DefaultPredictTimeout
	}
	return &Client{
		http:           resty.New().SetBaseURL(baseURL),
		out:            opts.Out,
		healthTimeout:  opts.HealthTimeout,
		predictTimeout: opts.PredictTimeout,
	}
}

// CheckHealth probes GET /docs and reports whether the service answered 200.
func (c *Client) CheckHealth(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	res, err := c.http.R().SetContext(ctx).Get("/docs")
	if err != nil {
		fmt.Fprintf(c.out, "❌ Failed to connect to API: %v\n", err)
		return false
	}

	if res.StatusCode() != http.StatusOK {
		fmt.Fprintf(c.out, "❌ API returned status code: %d\n", res.StatusCode())
		return false
	}

	fmt.Fprintln(c.out, "✅ API is running and accessible")
	return true
}

// Predict posts a base64 encoded image to /predict and reports the parsed
// prediction. Non-200 responses are reported with the raw body.
func (c *Client) Predict(ctx context.Context, imageBase64 string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.predictTimeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(api.PredictRequest{ImageBase64: imageBase64}).
		Post("/predict")
	if err != nil {
		fmt.Fprintf(c.out, "❌ Request failed: %v\n", err)
		return false
	}

	if res.StatusCode() != http.StatusOK {
		fmt.Fprintf(c.out, "❌ Prediction failed with status code: %d\n", res.StatusCode())
		fmt.Fprintf(c.out, "   Response: %s\n", res.String())
		return false
	}

	var result api.PredictResponse
	if err := json.Unmarshal(res.Body(), &result); err != nil {
		slog.Error("error parsing prediction response", "error", err)
		fmt.Fprintf(c.out, "❌ Could not parse prediction response: %v\n", err)
		return false
	}

	fmt.Fprintln(c.out, "✅ Prediction successful!")
	if result.NumKernels != nil {
		fmt.Fprintf(c.out, "   Number of kernels: %d\n", *result.NumKernels)
	} else {
		fmt.Fprintln(c.out, "   Number of kernels: N/A")
	}
	fmt.Fprintf(c.out, "   Matched kernel IDs: %v\n", result.MatchedKernelIDs)
	fmt.Fprintf(c.out, "   Matched scores: %v\n", result.MatchedScores)
	return true
}

// PredictFromFile runs Predict with the contents of a local image file. A
// missing file short-circuits to a reported failure without touching the
// network.
func (c *Client) PredictFromFile(ctx context.Context, path string) bool {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(c.out, "⚠️  Image file not found: %s\n", path)
		return false
	}

	fmt.Fprintf(c.out, "\n🖼️  Testing with real image: %s\n", path)

	imageBase64, err := testimage.FromFile(path)
	if err != nil {
		fmt.Fprintf(c.out, "❌ Error processing real image: %v\n", err)
		return false
	}

	return c.Predict(ctx, imageBase64)
}

package smoke

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"api-smoke/internal/client"
	"api-smoke/internal/testimage"
)

// DefaultBaseURL is used when no base URL is supplied on the command line
// or through the environment.
const DefaultBaseURL = "http://localhost:8000"

type Config struct {
	BaseURL        string
	HealthTimeout  time.Duration
	PredictTimeout time.Duration
}

// Run executes the probe sequence: health check, synthetic-image
// prediction, and an optional real-image prediction when args carries an
// image path. The first positional arg overrides the configured base URL.
// Returns the process exit code: 1 when either mandatory check fails, 0
// otherwise. A real-image failure is reported but does not affect the code.
func Run(ctx context.Context, cfg Config, args []string, out io.Writer) int {
	fmt.Fprintln(out, "🚀 Object-Centric AI API Test Suite")
	fmt.Fprintln(out, strings.Repeat("=", 40))

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if len(args) > 0 && args[0] != "" {
		baseURL = args[0]
	}

	fmt.Fprintf(out, "Testing API at: %s\n", baseURL)

	c := client.New(baseURL, client.Options{
		Out:            out,
		HealthTimeout:  cfg.HealthTimeout,
		PredictTimeout: cfg.PredictTimeout,
	})

	if !c.CheckHealth(ctx) {
		fmt.Fprintln(out, "\n❌ API health check failed. Make sure the server is running.")
		fmt.Fprintln(out, "   Start the stub server with: go run ./cmd/mockserver")
		return 1
	}

	fmt.Fprintln(out, "\n🧪 Testing /predict endpoint...")
	if !c.Predict(ctx, testimage.Build()) {
		fmt.Fprintln(out, "\n❌ Predict endpoint test failed.")
		return 1
	}

	if len(args) > 1 {
		c.PredictFromFile(ctx, args[1])
	}

	fmt.Fprintln(out, "\n🎉 All tests passed! API is working correctly.")
	fmt.Fprintln(out, "\n📚 API Documentation available at:")
	fmt.Fprintf(out, "   %s/docs\n", baseURL)
	fmt.Fprintf(out, "   %s/redoc\n", baseURL)
	return 0
}

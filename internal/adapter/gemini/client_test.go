package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aquaforesee/water-scenario-service/internal/observability"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewClient(context.Background(), "", "gemini-2.0-flash", 10*time.Second, observability.NewMetricsForTesting(), logger)

	assert.Error(t, err)
}

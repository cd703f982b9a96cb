package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/kringleapp/kringle/internal/dependencies/mocks"
	"github.com/kringleapp/kringle/internal/dependencies/random"
	"github.com/kringleapp/kringle/internal/services/keyderive"
	"github.com/kringleapp/kringle/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing. The clock is mocked; the
// randomness source is real because derangement generation needs an unbiased
// shuffle, and the PBKDF2 iteration count is lowered so reveals stay fast.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 12, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, random.New(), keyderive.Config{Iterations: 16}, logger)

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

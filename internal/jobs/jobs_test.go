package jobs_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMatchHandler struct {
	mock.Mock
}

func (m *MockMatchHandler) Handle(
	ctx context.Context,
	cmd commands.MatchPendingDeliveriesCommand,
) (commands.MatchRoundResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.MatchRoundResult), args.Error(1)
}

type MockSweepHandler struct {
	mock.Mock
}

func (m *MockSweepHandler) Handle(ctx context.Context, cmd commands.RunRiskSweepCommand) (commands.RiskSweepResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.RiskSweepResult), args.Error(1)
}

// syncBuffer guards log output written from cron goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLogger() (*slog.Logger, *syncBuffer) {
	out := &syncBuffer{}
	return slog.New(slog.NewTextHandler(out, nil)), out
}

func TestDeliveryMatchingJob_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("empty round is silent", func(t *testing.T) {
		handler := new(MockMatchHandler)
		handler.On("Handle", ctx, mock.MatchedBy(func(cmd commands.MatchPendingDeliveriesCommand) bool {
			return cmd.Validate() == nil && cmd.Limit() == commands.DefaultMatchBatchSize
		})).Return(commands.MatchRoundResult{}, nil).Once()

		logger, out := newLogger()
		jobs.NewDeliveryMatchingJob(handler, "*/5 * * * * *", logger).RunOnce(ctx)

		handler.AssertExpectations(t)
		assert.Empty(t, out.String())
	})

	t.Run("matches are reported", func(t *testing.T) {
		handler := new(MockMatchHandler)
		handler.On("Handle", ctx, mock.Anything).
			Return(commands.MatchRoundResult{Processed: 4, Matched: 3, Skipped: 1}, nil)

		logger, out := newLogger()
		jobs.NewDeliveryMatchingJob(handler, "*/5 * * * * *", logger).RunOnce(ctx)

		assert.Contains(t, out.String(), "matched=3")
		assert.Contains(t, out.String(), "component=delivery_matching_job")
	})

	t.Run("failure is logged", func(t *testing.T) {
		handler := new(MockMatchHandler)
		handler.On("Handle", ctx, mock.Anything).
			Return(commands.MatchRoundResult{}, errors.New("database error"))

		logger, out := newLogger()
		jobs.NewDeliveryMatchingJob(handler, "*/5 * * * * *", logger).RunOnce(ctx)

		assert.Contains(t, out.String(), "level=ERROR")
		assert.Contains(t, out.String(), "database error")
	})
}

func TestRiskSweepJob_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("suspensions are warnings", func(t *testing.T) {
		handler := new(MockSweepHandler)
		handler.On("Handle", ctx, mock.MatchedBy(func(cmd commands.RunRiskSweepCommand) bool {
			return cmd.Validate() == nil
		})).Return(commands.RiskSweepResult{Analyzed: 10, Reviews: 2, Suspended: 1}, nil)

		logger, out := newLogger()
		jobs.NewRiskSweepJob(handler, "0 0 * * * *", logger).RunOnce(ctx)

		handler.AssertExpectations(t)
		assert.Contains(t, out.String(), "level=WARN")
		assert.Contains(t, out.String(), "suspended=1")
	})

	t.Run("quiet sweep is info", func(t *testing.T) {
		handler := new(MockSweepHandler)
		handler.On("Handle", ctx, mock.Anything).Return(commands.RiskSweepResult{Analyzed: 3}, nil)

		logger, out := newLogger()
		jobs.NewRiskSweepJob(handler, "0 0 * * * *", logger).RunOnce(ctx)

		assert.Contains(t, out.String(), "level=INFO")
		assert.Contains(t, out.String(), "analyzed=3")
	})
}

func TestJobManager(t *testing.T) {
	t.Run("runs on schedule", func(t *testing.T) {
		var rounds atomic.Int32
		handler := new(MockMatchHandler)
		handler.On("Handle", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { rounds.Add(1) }).
			Return(commands.MatchRoundResult{}, nil)
		sweep := new(MockSweepHandler)

		logger, _ := newLogger()
		manager := jobs.NewJobManager(handler, sweep, jobs.Schedules{
			Matching:  "@every 1s",
			RiskSweep: "0 0 0 1 1 *",
		}, logger)

		require.NoError(t, manager.StartAll())
		defer manager.StopAll()

		require.Eventually(t, func() bool { return rounds.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
		sweep.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		logger, _ := newLogger()
		manager := jobs.NewJobManager(new(MockMatchHandler), new(MockSweepHandler), jobs.Schedules{
			Matching:  "*/5 * * * * *",
			RiskSweep: "every hour",
		}, logger)

		err := manager.StartAll()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "risk sweep job")
	})
}

package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGo_CallbacksNeverOverlap(t *testing.T) {
	t.Parallel()

	s := New(8)

	var running, overlap, calls int32
	for i := 0; i < 50; i++ {
		Go(context.Background(), s, func(ctx context.Context) (int, error) {
			return i, nil
		}, func(int, error) {
			if atomic.AddInt32(&running, 1) > 1 {
				atomic.StoreInt32(&overlap, 1)
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&running, -1)
			atomic.AddInt32(&calls, 1)
		})
	}
	s.Wait()

	require.Zero(t, atomic.LoadInt32(&overlap))
	require.Equal(t, int32(50), atomic.LoadInt32(&calls))
}

func TestGo_OpsRunConcurrently(t *testing.T) {
	t.Parallel()

	s := New(0)
	release := make(chan struct{})
	var started int32
	var errs []error

	for i := 0; i < 2; i++ {
		Go(context.Background(), s, func(ctx context.Context) (struct{}, error) {
			// обе операции должны стартовать, пока ни одна не закончилась
			if atomic.AddInt32(&started, 1) == 2 {
				close(release)
			}
			select {
			case <-release:
			case <-time.After(time.Second):
				return struct{}{}, errors.New("ops ran sequentially")
			}
			return struct{}{}, nil
		}, func(_ struct{}, err error) {
			errs = append(errs, err)
		})
	}
	s.Wait()

	require.Equal(t, []error{nil, nil}, errs)
}

func TestGo_CallbacksInSubmissionOrder(t *testing.T) {
	t.Parallel()

	s := New(0)
	var order []string

	Go(context.Background(), s, func(ctx context.Context) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "slow", nil
	}, func(v string, _ error) { order = append(order, v) })
	Go(context.Background(), s, func(ctx context.Context) (string, error) {
		return "fast", nil
	}, func(v string, _ error) { order = append(order, v) })
	s.Wait()

	require.Equal(t, []string{"slow", "fast"}, order)
}

func TestGo_DeliversResultAndError(t *testing.T) {
	t.Parallel()

	s := New(1)
	boom := errors.New("boom")
	var (
		gotVal string
		gotErr error
	)
	Go(context.Background(), s, func(ctx context.Context) (string, error) {
		return "partial", boom
	}, func(v string, err error) {
		gotVal, gotErr = v, err
	})
	s.Wait()

	require.Equal(t, "partial", gotVal)
	require.ErrorIs(t, gotErr, boom)
}

func TestGo_PassesContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(0)
	var gotErr error
	Go(ctx, s, func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	}, func(_ int, err error) { gotErr = err })
	s.Wait()

	require.ErrorIs(t, gotErr, context.Canceled)
}

func TestWait_PropagatesPanic(t *testing.T) {
	t.Parallel()

	s := New(0)
	Go(context.Background(), s, func(ctx context.Context) (int, error) {
		panic("bad op")
	}, func(int, error) {})

	require.Panics(t, s.Wait)
}

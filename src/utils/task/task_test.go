package task

import (
	"context"
	"testing"
	"time"

	"github.com/algoease/escrow/src/utils/config"

	"go.uber.org/atomic"

	"github.com/stretchr/testify/assert"
)

func TestStartStop(t *testing.T) {
	conf := config.Default()
	conf.StopTimeout = time.Second

	task := NewTask(conf, "test").
		WithSubtaskFunc(func() error {
			<-time.After(10 * time.Millisecond)
			return nil
		})

	err := task.Start()
	assert.Nil(t, err)

	task.StopWait()

	<-task.CtxRunning.Done()
}

func TestPeriodicSubtask(t *testing.T) {
	conf := config.Default()
	conf.StopTimeout = time.Second

	var runs atomic.Int64
	task := NewTask(conf, "test").
		WithPeriodicSubtaskFunc(time.Millisecond, func() error {
			runs.Inc()
			return nil
		})

	err := task.Start()
	assert.Nil(t, err)

	<-time.After(50 * time.Millisecond)
	task.StopWait()

	assert.Greater(t, runs.Load(), int64(1))
}

func TestRepeatedSubtaskDrains(t *testing.T) {
	conf := config.Default()
	conf.StopTimeout = time.Second

	var runs atomic.Int64
	task := NewTask(conf, "test").
		WithRepeatedSubtaskFunc(time.Hour, func() (bool, error) {
			// Asks for 3 immediate rounds, then waits for the period
			return runs.Inc() < 3, nil
		})

	err := task.Start()
	assert.Nil(t, err)

	<-time.After(50 * time.Millisecond)
	task.StopWait()

	assert.Equal(t, int64(3), runs.Load())
}

func TestRetrySucceedsEventually(t *testing.T) {
	var attempts int
	err := NewRetry().
		WithContext(context.Background()).
		WithMaxInterval(time.Millisecond).
		WithMaxElapsedTime(time.Second).
		Run(func() error {
			attempts += 1
			if attempts < 3 {
				return assert.AnError
			}
			return nil
		})

	assert.Nil(t, err)
	assert.Equal(t, 3, attempts)
}

package llm

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/easyops/hellochains-go/pkg/core/errors"
)

// maxBackoff 单次退避上限
const maxBackoff = 30 * time.Second

// RetryFunc 可重试的函数类型
type RetryFunc func() error

// retry 执行带指数退避的重试
//
// 只有 errors.IsRetryable 的错误会被重试，onRetry 可为 nil。
func retry(ctx context.Context, maxRetries int, baseDelay time.Duration, onRetry func(attempt int, err error), fn RetryFunc) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return errors.ErrContextCanceled
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !errors.IsRetryable(err) || attempt == maxRetries {
			return err
		}

		if onRetry != nil {
			onRetry(attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return errors.ErrContextCanceled
		case <-time.After(calculateBackoff(attempt, baseDelay)):
		}
	}

	return lastErr
}

// calculateBackoff 计算指数退避时间
// 使用公式: baseDelay * 2^attempt + 最多 10% 的随机抖动，上限 30 秒
func calculateBackoff(attempt int, baseDelay time.Duration) time.Duration {
	delay := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt)))
	delay += time.Duration(float64(delay) * 0.1 * rand.Float64())
	if delay > maxBackoff || delay < 0 {
		delay = maxBackoff
	}
	return delay
}

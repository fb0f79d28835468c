package awsd

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"stackforge/errors"
)

// retryableCodes are AWS error codes worth retrying: throttling, and
// DependencyViolation which clears once dependents finish draining
var retryableCodes = map[string]bool{
	"RequestLimitExceeded": true,
	"Throttling":           true,
	"ThrottlingException":  true,
	"DependencyViolation":  true,
	"ResourceInUse":        true,
}

// referenceNotFoundCodes cover eventual consistency on freshly created
// resources referenced by a later create call
var referenceNotFoundCodes = map[string]bool{
	"InvalidVpcID.NotFound":     true,
	"InvalidSubnetID.NotFound":  true,
	"InvalidGroup.NotFound":     true,
	"InvalidGatewayID.NotFound": true,
}

func isRetryable(err error) bool {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return retryableCodes[code] || referenceNotFoundCodes[code]
	}
	return false
}

func isThrottle(err error) bool {
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "RequestLimitExceeded" || code == "Throttling" || code == "ThrottlingException"
	}
	return false
}

// IsNotFound reports whether err is an AWS "no such resource" error,
// used by teardown and verify to detect already-gone resources
func IsNotFound(err error) bool {
	if errors.Is(err, errors.ErrAWSNotFound) {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if strings.HasSuffix(code, "NotFound") {
			return true
		}
		// The Auto Scaling API reports a missing group or policy as a
		// ValidationError rather than a NotFound code
		return code == "ValidationError" && strings.Contains(strings.ToLower(apiErr.ErrorMessage()), "not found")
	}
	return false
}

// withRetry runs fn up to maxRetries+1 times, sleeping retryDelay between
// attempts on retryable AWS errors. Context cancellation aborts the wait.
func (c *Client) withRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying AWS operation",
				zap.String("operation", operation),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
	}

	if isThrottle(lastErr) {
		return errors.New(errors.ErrAWSThrottled, "AWS call throttled after retries",
			map[string]interface{}{
				"operation":   operation,
				"max_retries": c.maxRetries,
			}, lastErr)
	}
	return lastErr
}

package aierrors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/myrjola/hotseat/internal/ai/aierrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		wantType  aierrors.Type
		retryable bool
	}{
		{
			name:      "status code in message wins over patterns",
			err:       errors.New("request failed: status code: 429, message: slow down"),
			wantType:  aierrors.TypeQuota,
			retryable: true,
		},
		{
			name:      "unauthorized status",
			err:       errors.New("error, status code: 401, message: invalid key"),
			wantType:  aierrors.TypeConfig,
			retryable: false,
		},
		{
			name:      "server error status",
			err:       errors.New("error, status code: 503, message: overloaded"),
			wantType:  aierrors.TypeTransport,
			retryable: true,
		},
		{
			name:      "bad request status",
			err:       errors.New("error, status code: 400, message: bad request"),
			wantType:  aierrors.TypeBadPrompt,
			retryable: false,
		},
		{
			name:      "connection reset without status",
			err:       errors.New("read tcp 127.0.0.1:443: connection reset by peer"),
			wantType:  aierrors.TypeTransport,
			retryable: true,
		},
		{
			name:      "quota text without status",
			err:       errors.New("you have exceeded your quota"),
			wantType:  aierrors.TypeQuota,
			retryable: true,
		},
		{
			name:      "api key text",
			err:       errors.New("incorrect api key provided"),
			wantType:  aierrors.TypeConfig,
			retryable: false,
		},
		{
			name:      "context length text",
			err:       errors.New("this model's maximum context length is exceeded"),
			wantType:  aierrors.TypeBadPrompt,
			retryable: false,
		},
		{
			name:      "deadline exceeded",
			err:       context.DeadlineExceeded,
			wantType:  aierrors.TypeTransport,
			retryable: true,
		},
		{
			name:      "cancelled",
			err:       context.Canceled,
			wantType:  aierrors.TypeTransport,
			retryable: true,
		},
		{
			name:      "unclassifiable",
			err:       errors.New("something odd happened"),
			wantType:  aierrors.TypeUnknown,
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			classified := aierrors.Classify(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.wantType, classified.Type)
			assert.Equal(t, tt.retryable, classified.IsRetryable())
			assert.ErrorIs(t, classified, tt.err)
		})
	}
}

func TestClassify_nil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, aierrors.Classify(nil))
}

func TestClassify_alreadyClassified(t *testing.T) {
	t.Parallel()

	original := aierrors.New(aierrors.TypeEmptyResponse, "no content")
	wrapped := fmt.Errorf("complete: %w", original)

	assert.Same(t, original, aierrors.Classify(wrapped))
}

func TestFromStatusCode(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	assert.Equal(t, aierrors.TypeConfig, aierrors.FromStatusCode(403, cause).Type)
	assert.Equal(t, aierrors.TypeQuota, aierrors.FromStatusCode(429, cause).Type)
	assert.Equal(t, aierrors.TypeTransport, aierrors.FromStatusCode(502, cause).Type)
	assert.Equal(t, aierrors.TypeBadPrompt, aierrors.FromStatusCode(400, cause).Type)

	// Codes that do not decide fall through to pattern classification.
	assert.Equal(t, aierrors.TypeQuota, aierrors.FromStatusCode(0, errors.New("rate limited")).Type)
}

func TestHelpers(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("call gateway: %w", aierrors.New(aierrors.TypeQuota, "slow down"))

	assert.True(t, aierrors.Is(err, aierrors.TypeQuota))
	assert.False(t, aierrors.Is(err, aierrors.TypeConfig))
	assert.Equal(t, aierrors.TypeQuota, aierrors.TypeOf(err))
	assert.True(t, aierrors.IsRetryable(err))

	plain := errors.New("plain")
	assert.False(t, aierrors.IsRetryable(plain))
	assert.Equal(t, aierrors.TypeUnknown, aierrors.TypeOf(plain))
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	withStatus := &aierrors.Error{Type: aierrors.TypeQuota, StatusCode: 429, Message: "rate limit exceeded"}
	assert.Equal(t, "llm quota error (status 429): rate limit exceeded", withStatus.Error())

	messageOnly := aierrors.New(aierrors.TypeEmptyResponse, "no content")
	assert.Equal(t, "llm empty_response error: no content", messageOnly.Error())

	causeOnly := &aierrors.Error{Type: aierrors.TypeUnknown, Err: errors.New("boom")}
	assert.Equal(t, "llm unknown error: boom", causeOnly.Error())
}

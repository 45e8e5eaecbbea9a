package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryBackoffScalesWithAttempts(t *testing.T) {
	assert.Equal(t, time.Duration(0), RetryBackoff(0), "a never-attempted record retries immediately")
	assert.Equal(t, 30*time.Second, RetryBackoff(1))
	assert.Equal(t, time.Minute, RetryBackoff(2))
	assert.Equal(t, 2*time.Minute, RetryBackoff(4))
	assert.Equal(t, time.Duration(0), RetryBackoff(-1))
}

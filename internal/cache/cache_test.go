package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsNoop(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Close())

	n, err := c.Incr(ctx, "k", time.Minute)
	assert.NoError(t, err)
	assert.Zero(t, n)
}

package minimizer

import (
	"context"
	"time"

	"github.com/jmylchreest/windowstash/internal/cache"
	"github.com/jmylchreest/windowstash/internal/model"
	"github.com/jmylchreest/windowstash/internal/shell"
)

// Client is the production Backend: the cache file plus the restore script.
type Client struct {
	cache       *cache.FileCache
	restoreArgs []string
	timeout     time.Duration
	runner      shell.Runner
}

// NewClient creates a Client. restoreArgs is the script invocation without
// the "restore <address>" suffix.
func NewClient(fileCache *cache.FileCache, restoreArgs []string, timeout time.Duration, runner shell.Runner) *Client {
	if runner == nil {
		runner = shell.NewExecRunner()
	}
	args := make([]string, len(restoreArgs))
	copy(args, restoreArgs)
	return &Client{
		cache:       fileCache,
		restoreArgs: args,
		timeout:     timeout,
		runner:      runner,
	}
}

// ReadCache returns the windows in the cache file.
func (c *Client) ReadCache(ctx context.Context) ([]model.MinimizedWindow, error) {
	return c.cache.ReadCache(ctx)
}

// Restore runs "<script> restore <address>".
func (c *Client) Restore(ctx context.Context, address string) error {
	if len(c.restoreArgs) == 0 {
		return shell.ErrEmptyCommand
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	argv := append(append([]string{}, c.restoreArgs...), "restore", address)
	_, err := c.runner.Run(ctx, argv, nil)
	return err
}

// Cache returns the underlying cache file.
func (c *Client) Cache() *cache.FileCache {
	return c.cache
}

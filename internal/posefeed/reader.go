package posefeed

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/tochemey/goakt/v3/actor"
	"go.uber.org/zap"
)

// ReadLines forwards line-delimited JSON frames from r to the pose actor until
// r is exhausted or ctx is cancelled. Lines that are not JSON are logged and skipped.
func ReadLines(ctx context.Context, r io.Reader, pid *actor.PID, logger *zap.Logger) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)

	line := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		if err := Submit(ctx, pid, data); err != nil {
			logger.Warn("skipping pose line", zap.Int("line", line), zap.Error(err))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read pose lines: %w", err)
	}
	logger.Info("pose input closed", zap.Int("lines", line))
	return nil
}

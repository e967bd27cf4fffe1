package binance

import (
	"context"
	"time"
)

// Timestamp returns the current time in milliseconds, shifted by the offset
// measured by the last SyncTime.
func (c *Client) Timestamp() int64 {
	return c.now().UnixMilli() + c.timeOffset.Load()
}

// TimeOffset is the server clock minus the local clock, as of the last SyncTime.
func (c *Client) TimeOffset() time.Duration {
	return time.Duration(c.timeOffset.Load()) * time.Millisecond
}

// SyncTime measures the server clock offset and applies it to the
// timestamps of later signed requests. Concurrent calls share one request.
func (c *Client) SyncTime(ctx context.Context) (time.Duration, error) {
	v, err, _ := c.syncGroup.Do("sync-time", func() (any, error) {
		before := c.now()
		st, err := c.ServerTime(ctx)
		if err != nil {
			return time.Duration(0), err
		}
		after := c.now()

		local := before.Add(after.Sub(before) / 2)
		offset := st.ServerTime.Time().Sub(local)
		c.timeOffset.Store(offset.Milliseconds())

		c.logger.Debug().Dur("offset", offset).Msg("synced server time")
		return offset, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(time.Duration), nil
}

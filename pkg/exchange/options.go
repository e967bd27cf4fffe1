package exchange

import (
	"time"
)

// Option sets an optional query parameter of a call.
type Option func(*Options)

// Options holds the optional parameters shared by list and signed endpoints.
// Unset fields are omitted from the query.
type Options struct {
	Limit     *int
	FromID    *int64
	OrderID   *int64
	StartTime *time.Time
	EndTime   *time.Time

	// RecvWindow and Timestamp only apply to signed endpoints.
	RecvWindow *int64
	Timestamp  *int64
}

func WithLimit(limit int) Option {
	return func(o *Options) {
		o.Limit = &limit
	}
}

func WithFromID(id int64) Option {
	return func(o *Options) {
		o.FromID = &id
	}
}

func WithOrderID(id int64) Option {
	return func(o *Options) {
		o.OrderID = &id
	}
}

func WithTimeRange(start, end time.Time) Option {
	return func(o *Options) {
		o.StartTime = &start
		o.EndTime = &end
	}
}

func WithStartTime(start time.Time) Option {
	return func(o *Options) {
		o.StartTime = &start
	}
}

func WithEndTime(end time.Time) Option {
	return func(o *Options) {
		o.EndTime = &end
	}
}

// WithRecvWindow overrides the configured recvWindow, in milliseconds.
func WithRecvWindow(ms int64) Option {
	return func(o *Options) {
		o.RecvWindow = &ms
	}
}

// WithTimestamp pins the request timestamp, in milliseconds since the epoch.
func WithTimestamp(ms int64) Option {
	return func(o *Options) {
		o.Timestamp = &ms
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

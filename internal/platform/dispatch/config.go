package dispatch

import "time"

const (
	DefaultCoreWorkers   = 5
	DefaultMaxWorkers    = 10
	DefaultQueueSize     = 100
	DefaultKeepAlive     = 60 * time.Second
	DefaultShutdownGrace = 60 * time.Second
)

// Config sizes the pool.
type Config struct {
	CoreWorkers   int
	MaxWorkers    int
	QueueSize     int
	KeepAlive     time.Duration
	ShutdownGrace time.Duration
}

// DefaultConfig returns five core workers growable to ten over a queue of one hundred.
func DefaultConfig() Config {
	return Config{
		CoreWorkers:   DefaultCoreWorkers,
		MaxWorkers:    DefaultMaxWorkers,
		QueueSize:     DefaultQueueSize,
		KeepAlive:     DefaultKeepAlive,
		ShutdownGrace: DefaultShutdownGrace,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.CoreWorkers <= 0 {
		c.CoreWorkers = def.CoreWorkers
	}
	if c.MaxWorkers < c.CoreWorkers {
		c.MaxWorkers = c.CoreWorkers
	}
	if c.QueueSize < 0 {
		c.QueueSize = 0
	}
	if c.KeepAlive <= 0 {
		c.KeepAlive = def.KeepAlive
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = def.ShutdownGrace
	}
	return c
}

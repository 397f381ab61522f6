package redisfactory

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type Factory struct {
	history *redis.Client
}

// New parses the history redis URI. An empty URI leaves history disabled.
func New(historyURI string) (*Factory, error) {
	f := &Factory{}

	if historyURI == "" {
		return f, nil
	}

	opt, err := redis.ParseURL(historyURI)
	if err != nil {
		return nil, err
	}

	opt.DialTimeout = 4 * time.Second
	opt.ReadTimeout = 3 * time.Second
	opt.WriteTimeout = 3 * time.Second

	f.history = redis.NewClient(opt)

	return f, nil
}

// HistoryClient is nil when history is disabled.
func (f *Factory) HistoryClient() *redis.Client {
	return f.history
}

func (f *Factory) Close() error {
	if f.history == nil {
		return nil
	}
	return f.history.Close()
}

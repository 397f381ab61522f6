package upstream

import (
	"net/http"
	"time"
)

const DefaultTimeout = 30 * time.Second

type OptionFunc func(o *Options)

type Options struct {
	// Name of the caller service, sent as User-Agent
	name string

	// Timeout - if not set, then default timeout is used
	timeout time.Duration

	// Transport - base round tripper, defaults to a keep-alive free clone of http.DefaultTransport
	transport http.RoundTripper

	// MaskAPIKey - how the api key shows up in logs
	maskAPIKey func(string) string
}

func WithTimeout(timeout time.Duration) OptionFunc {
	return func(o *Options) {
		o.timeout = timeout
	}
}

func WithTransport(transport http.RoundTripper) OptionFunc {
	return func(o *Options) {
		o.transport = transport
	}
}

func WithAPIKeyMask(mask func(string) string) OptionFunc {
	return func(o *Options) {
		o.maskAPIKey = mask
	}
}

func NewOptions(optionFuncs ...OptionFunc) *Options {
	options := &Options{
		name: "carrier-call-relay",
		maskAPIKey: func(string) string {
			return "****"
		},
	}

	for _, optionFunc := range optionFuncs {
		optionFunc(options)
	}

	if options.transport == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DisableKeepAlives = true
		options.transport = transport
	}

	return options
}

func (o *Options) Name() string {
	return o.name
}

func (o *Options) Timeout() time.Duration {
	if o.timeout > 0 {
		return o.timeout
	}
	return DefaultTimeout
}

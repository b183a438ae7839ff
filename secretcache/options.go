package secretcache

import (
	"time"

	"github.com/evergreen-ci/cachette"
	"github.com/evergreen-ci/cachette/awsutil"
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
)

// Defaults applied by Options.Validate for unspecified options.
const (
	// DefaultRegion is the geographical region used to construct the default
	// secret source.
	DefaultRegion = "us-east-1"
	// DefaultRefreshInterval is the period of the scheduled background
	// refresh.
	DefaultRefreshInterval = 5 * time.Minute
	// DefaultMaxRetries is the number of retries permitted per fetch after
	// the initial attempt.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the delay before the first retry of a failed
	// fetch.
	DefaultRetryDelay = time.Second
)

// Options configure a BasicSecretCache. Invalid options are rejected at
// construction time, before any fetch is attempted.
type Options struct {
	// SecretMappings seeds the alias registry with the initial mapping from
	// alias to provider identifier. This is required and must be non-empty.
	SecretMappings map[string]string
	// Region is the geographical region used to construct the default secret
	// source. It is ignored if Source is given.
	Region *string
	// RefreshInterval is the period of the scheduled background refresh. It
	// must be positive.
	RefreshInterval *time.Duration
	// MaxRetries bounds the number of retries per fetch after the initial
	// attempt. It must be non-negative; zero means no retries.
	MaxRetries *int
	// RetryDelay is the delay before the first retry of a failed fetch; the
	// delay doubles for each subsequent retry. It must be positive.
	RetryDelay *time.Duration
	// DisableEvents suppresses delivery of all notifications when true.
	// Cache mutation is unaffected.
	DisableEvents bool
	// DisableLogging disables all logging from the cache when true.
	DisableLogging bool
	// Logger is the logger the cache writes to. It defaults to a new
	// journaler named after this package, so logging state is never shared
	// between cache instances.
	Logger grip.Journaler
	// Source is the secret source to resolve provider identifiers against.
	// It defaults to a Secrets Manager source for the configured region.
	Source cachette.SecretSource
	// AWSOpts are the client options used to construct the default secret
	// source. They are ignored if Source is given.
	AWSOpts *awsutil.ClientOptions
}

// NewOptions returns new unconfigured options.
func NewOptions() *Options {
	return &Options{}
}

// SetSecretMappings sets the initial mapping from alias to provider
// identifier.
func (o *Options) SetSecretMappings(mappings map[string]string) *Options {
	o.SecretMappings = mappings
	return o
}

// SetRegion sets the geographical region for the default secret source.
func (o *Options) SetRegion(region string) *Options {
	o.Region = &region
	return o
}

// SetRefreshInterval sets the period of the scheduled background refresh.
func (o *Options) SetRefreshInterval(interval time.Duration) *Options {
	o.RefreshInterval = &interval
	return o
}

// SetMaxRetries sets the number of retries permitted per fetch.
func (o *Options) SetMaxRetries(retries int) *Options {
	o.MaxRetries = &retries
	return o
}

// SetRetryDelay sets the delay before the first retry of a failed fetch.
func (o *Options) SetRetryDelay(delay time.Duration) *Options {
	o.RetryDelay = &delay
	return o
}

// SetDisableEvents sets whether notification delivery is suppressed.
func (o *Options) SetDisableEvents(disable bool) *Options {
	o.DisableEvents = disable
	return o
}

// SetDisableLogging sets whether logging is disabled.
func (o *Options) SetDisableLogging(disable bool) *Options {
	o.DisableLogging = disable
	return o
}

// SetLogger sets the logger the cache writes to.
func (o *Options) SetLogger(logger grip.Journaler) *Options {
	o.Logger = logger
	return o
}

// SetSource sets the secret source to resolve provider identifiers against.
func (o *Options) SetSource(source cachette.SecretSource) *Options {
	o.Source = source
	return o
}

// SetAWSOptions sets the client options used to construct the default secret
// source.
func (o *Options) SetAWSOptions(opts awsutil.ClientOptions) *Options {
	o.AWSOpts = &opts
	return o
}

// Validate checks that all required fields are given and sets defaults for
// unspecified options.
func (o *Options) Validate() error {
	catcher := grip.NewBasicCatcher()
	catcher.NewWhen(len(o.SecretMappings) == 0, "must provide at least one secret mapping")
	for alias, id := range o.SecretMappings {
		catcher.NewWhen(alias == "", "alias cannot be empty")
		catcher.ErrorfWhen(id == "", "provider identifier for alias '%s' cannot be empty", alias)
	}
	catcher.NewWhen(o.Region != nil && utility.FromStringPtr(o.Region) == "", "region cannot be empty")
	catcher.NewWhen(o.RefreshInterval != nil && *o.RefreshInterval <= 0, "refresh interval must be positive")
	catcher.NewWhen(o.MaxRetries != nil && *o.MaxRetries < 0, "max retries cannot be negative")
	catcher.NewWhen(o.RetryDelay != nil && *o.RetryDelay <= 0, "retry delay must be positive")

	if catcher.HasErrors() {
		return catcher.Resolve()
	}

	if o.Region == nil {
		o.Region = utility.ToStringPtr(DefaultRegion)
	}
	if o.RefreshInterval == nil {
		interval := time.Duration(DefaultRefreshInterval)
		o.RefreshInterval = &interval
	}
	if o.MaxRetries == nil {
		retries := DefaultMaxRetries
		o.MaxRetries = &retries
	}
	if o.RetryDelay == nil {
		delay := time.Duration(DefaultRetryDelay)
		o.RetryDelay = &delay
	}
	if o.Logger == nil && !o.DisableLogging {
		o.Logger = grip.NewJournaler("secretcache")
	}
	if o.AWSOpts == nil {
		o.AWSOpts = awsutil.NewClientOptions().SetRegion(utility.FromStringPtr(o.Region))
	}

	return nil
}

package domain

import "errors"

// Kind classifies a Failure. The set is closed.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindServer
	KindAPIKeyNotConfigured
	KindCacheEmpty
)

var (
	// ErrServer matches any server failure via errors.Is.
	ErrServer = &Failure{Kind: KindServer}

	// ErrAPIKeyNotConfigured is returned when the credential is missing or rejected upstream.
	ErrAPIKeyNotConfigured = &Failure{Kind: KindAPIKeyNotConfigured}

	// ErrCacheEmpty is returned when no usable snapshot exists.
	ErrCacheEmpty = &Failure{Kind: KindCacheEmpty}
)

// Failure is the error type every article-sourcing operation reports.
type Failure struct {
	Kind   Kind
	Detail string
}

// ServerFailure builds a server failure carrying the upstream detail.
func ServerFailure(detail string) *Failure {
	return &Failure{Kind: KindServer, Detail: detail}
}

// CacheFailure builds a cache-empty failure carrying a diagnostic detail.
func CacheFailure(detail string) *Failure {
	return &Failure{Kind: KindCacheEmpty, Detail: detail}
}

func (f *Failure) Error() string {
	msg := f.Kind.description()
	if f.Detail != "" {
		return msg + ": " + f.Detail
	}
	return msg
}

// Is matches failures by kind, ignoring detail.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	return ok && t.Kind == f.Kind
}

// AsFailure extracts the Failure from err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// KindOf returns the failure kind of err, or KindUnknown for nil and foreign errors.
func KindOf(err error) Kind {
	if f, ok := AsFailure(err); ok {
		return f.Kind
	}
	return KindUnknown
}

// String returns the machine-readable name used in API responses and metric labels.
func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindAPIKeyNotConfigured:
		return "api_key_not_configured"
	case KindCacheEmpty:
		return "cache_empty"
	default:
		return "unknown"
	}
}

// Retryable reports whether asking again can succeed without operator action.
func (k Kind) Retryable() bool {
	return k != KindAPIKeyNotConfigured
}

// UserMessage is the guidance shown to an end user for this kind.
func (k Kind) UserMessage() string {
	switch k {
	case KindServer:
		return "Failed to fetch articles. Please try again."
	case KindCacheEmpty:
		return "No cached data available. Please connect to the internet."
	case KindAPIKeyNotConfigured:
		return "News API key is not configured.\n\n" +
			"Set NEWS_API_KEY or newsapi.api_key in the config file.\n\n" +
			"Get your free API key at: https://newsapi.org/register"
	default:
		return "An unexpected error occurred."
	}
}

func (k Kind) description() string {
	switch k {
	case KindServer:
		return "server error"
	case KindAPIKeyNotConfigured:
		return "news api key is not configured"
	case KindCacheEmpty:
		return "no cached articles available"
	default:
		return "unknown failure"
	}
}

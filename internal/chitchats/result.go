package chitchats

// Kind discriminates the outcome of one remote call.
type Kind int

const (
	// KindSuccess is a 2xx response whose body (if requested) was decoded.
	KindSuccess Kind = iota
	// KindEmptySuccess is a 204 response; there is no body to read.
	KindEmptySuccess
	// KindAPIError is any other non-2xx response, carrying the API message.
	KindAPIError
	// KindRateLimited is a 429 response, with the Retry-After hint when the
	// header was sent.
	KindRateLimited
	// KindTransportFailure is a network or decode failure; no status code
	// exists for it.
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindEmptySuccess:
		return "empty_success"
	case KindAPIError:
		return "api_error"
	case KindRateLimited:
		return "rate_limited"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is the uniform outcome of a remote call. Exactly one Kind applies.
// Status is zero only for transport failures. RetryAfter is non-nil only
// when a 429 response carried a parseable Retry-After header; it is never
// guessed or defaulted.
type Result struct {
	Kind       Kind
	Status     int
	Message    string
	RetryAfter *int
}

// OK reports whether the call reached the API and succeeded, with or
// without a response body.
func (r Result) OK() bool {
	return r.Kind == KindSuccess || r.Kind == KindEmptySuccess
}

func transportFailure(err error) Result {
	return Result{Kind: KindTransportFailure, Message: err.Error()}
}

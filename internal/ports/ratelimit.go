package ports

// RateLimiter gates request admission per phone number.
type RateLimiter interface {
	// Check records the request when allowed. When denied, retryAfter is
	// the whole number of seconds until the next request can pass, at
	// least 1.
	Check(phone string) (allowed bool, retryAfter int)
}

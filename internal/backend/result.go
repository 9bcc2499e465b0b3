package backend

// Result represents the outcome of a backend call.
// Exactly one of Response and Err is set.
type Result struct {
	Response *Response
	Err      *NormalizedError
}

// Ok reports whether the call succeeded
func (result Result) Ok() bool {
	return result.Err == nil && result.Response != nil
}

package pose

// ReceiverBuilderOption is a function that configures a Receiver instance during construction.
type ReceiverBuilderOption func(*receiverImpl)

// NewReceiver creates a pose stream receiver with a 1 MiB inbound message
// limit.
//
// Parameters:
//   - opts: optional configuration applied in order
//
// Returns:
//   - Receiver: the constructed receiver
func NewReceiver(opts ...ReceiverBuilderOption) Receiver {
	r := &receiverImpl{
		readLimit: 1 << 20,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithReadLimit is an option builder that sets the maximum inbound message
// size in bytes. Zero disables the limit.
//
// Parameters:
//   - limit: the message size limit in bytes
//
// Returns:
//   - ReceiverBuilderOption: a function that applies the limit option to a receiver
func WithReadLimit(limit int64) ReceiverBuilderOption {
	return func(r *receiverImpl) {
		r.readLimit = limit
	}
}

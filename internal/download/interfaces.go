package download

// Emitter delivers outbound messages to the extension. The framed stdio
// channel is the production implementation.
type Emitter interface {
	Send(v any) error
}

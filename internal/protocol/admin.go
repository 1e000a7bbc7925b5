package protocol

// Administrative request/reply pairs carried over the generator admin
// channel. These are peripheral to the matching core and exist so the
// administrative surface can drive the synthetic order generator.

// StartGenerationRequest asks the generator to start producing orders.
type StartGenerationRequest struct{}

// StartGenerationReply acknowledges a StartGenerationRequest.
type StartGenerationReply struct {
	Started bool
}

// StopGenerationRequest asks the generator to stop producing orders.
type StopGenerationRequest struct{}

// StopGenerationReply acknowledges a StopGenerationRequest.
type StopGenerationReply struct {
	Stopped bool
}

// GenerationStatusRequest polls the generator state.
type GenerationStatusRequest struct{}

// GenerationStatusReply reports whether the generator is running.
type GenerationStatusReply struct {
	Running bool
}

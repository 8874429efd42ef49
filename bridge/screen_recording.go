package bridge

const MethodIsScreenRecording = "isScreenRecording"

// RecordingChecker is anything that can answer the screen recording question.
type RecordingChecker interface {
	IsScreenRecording() bool
}

// RegisterScreenRecording serves isScreenRecording on ch.
func RegisterScreenRecording(ch *Channel, checker RecordingChecker) {
	ch.Handle(MethodIsScreenRecording, func() Result {
		return Success(checker.IsScreenRecording())
	})
}

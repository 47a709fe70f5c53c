package domain

// Method names understood by the bridge. Anything else is routed to the
// not-implemented sentinel.
type Method string

const (
	MethodRecognizeText Method = "recognizeText"
	MethodShareFile     Method = "shareFile"
)

// Channel names exposed to the UI layer.
const (
	ChannelTextRecognition = "text_recognition"
	ChannelNativeShare     = "native_share"
)

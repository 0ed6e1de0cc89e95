package server

// Wire messages are JSON text frames. The client sends audio frames; the
// server answers with transcript, response text, and synthesized audio in
// the order the sentences were generated.

// inboundMessage is any frame received from the client. Only type "audio"
// is recognized; Data carries base64-encoded raw PCM samples.
type inboundMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// transcriptEvent reports the recognized user utterance.
type transcriptEvent struct {
	Type    string `json:"type"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// textEvent carries response and response_append messages.
type textEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// audioEvent carries one sentence's synthesized PCM, base64-encoded.
type audioEvent struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// doneEvent marks the end of a reply's audio stream.
type doneEvent struct {
	Type string `json:"type"`
}

// errorEvent reports a failed reply cycle. Message is generic on purpose;
// the cause is logged server-side.
type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

package queue

const (
	TypeAudioInvalidate = "audio:invalidate"
)

// AudioInvalidatePayload carries the deleted document's text so the worker
// can reconstruct candidate cache fingerprints; no document->fingerprint
// index exists to consult instead.
type AudioInvalidatePayload struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
}

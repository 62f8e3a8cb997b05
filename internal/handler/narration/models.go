package narration

// UploadResponse is returned after a PDF was narrated
type UploadResponse struct {
	Message          string `json:"message"`
	ID               string `json:"id"`
	NarrationPreview string `json:"narration_preview"`
	AudioURL         string `json:"audio_url"`
}

// ErrorResponse carries a user facing error message
type ErrorResponse struct {
	Error string `json:"error"`
}

// User facing messages
const (
	MsgSuccess         = "PDF processed and audio generated successfully."
	MsgNoFile          = "No file uploaded."
	MsgOnlyPDF         = "Only PDF files are allowed."
	MsgEmptyPDF        = "The PDF appears to be empty or unreadable."
	MsgNarrationFailed = "Failed to generate narration."
	MsgInternal        = "Something went wrong while processing the PDF. Please try again later."
	MsgAudioNotFound   = "Audio not found."
	MsgNotFound        = "Narration not found."
)

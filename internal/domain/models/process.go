package models

// ProcessRequest is the body of POST /process.
type ProcessRequest struct {
	URL          string `json:"url" validate:"required"`
	Category     string `json:"category" validate:"required"`
	TickerSymbol string `json:"ticker_symbol" validate:"omitempty,max=16"`
	CustomTitle  string `json:"custom_title" validate:"omitempty,max=300"`
	DownloadOnly bool   `json:"download_only"`
	MacDownload  bool   `json:"mac_download"`
}

// Status values carried in every response body.
const (
	StatusSuccess   = "success"
	StatusCancelled = "cancelled"
	StatusError     = "error"
)

// ProcessResult is the orchestration outcome returned to callers.
type ProcessResult struct {
	Status      string          `json:"status"`
	Message     string          `json:"message"`
	Filename    string          `json:"filename"`
	Category    Category        `json:"category"`
	AudioURL    string          `json:"audio_url,omitempty"`
	MetadataURL string          `json:"metadata_url,omitempty"`
	Analysis    *AnalysisResult `json:"analysis,omitempty"`
}

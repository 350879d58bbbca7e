package models

import "path/filepath"

// VideoSource is a validated video URL and its extracted identifier.
type VideoSource struct {
	URL string
	ID  string
}

// Metadata is the raw JSON object reported by the acquirer.
type Metadata map[string]any

// Title returns the "title" field or an empty string.
func (m Metadata) Title() string { return m.str("title") }

// DurationString returns the human duration reported by the acquirer.
func (m Metadata) DurationString() string {
	if s := m.str("duration_string"); s != "" {
		return s
	}
	return "Unknown"
}

func (m Metadata) str(key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Download is the outcome of a successful acquisition.
type Download struct {
	TempPath string
	Metadata Metadata
}

// MediaAsset describes the files that belong to one processed video.
type MediaAsset struct {
	Dir  string
	Stem string
}

func (a MediaAsset) AudioName() string    { return a.Stem + ".m4a" }
func (a MediaAsset) MetadataName() string { return a.Stem + ".json" }
func (a MediaAsset) AnalysisName() string { return a.Stem + "_analysis.json" }
func (a MediaAsset) ChartName() string    { return a.Stem + "_price.png" }

func (a MediaAsset) AudioPath() string    { return filepath.Join(a.Dir, a.AudioName()) }
func (a MediaAsset) MetadataPath() string { return filepath.Join(a.Dir, a.MetadataName()) }
func (a MediaAsset) AnalysisPath() string { return filepath.Join(a.Dir, a.AnalysisName()) }
func (a MediaAsset) ChartPath() string    { return filepath.Join(a.Dir, a.ChartName()) }

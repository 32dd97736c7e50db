package docmodel

// FileType is the sniffed identity of an uploaded buffer.
type FileType struct {
	MIME string `json:"mime"`
	Ext  string `json:"ext"`
}

// ImageInfo is recorded only when the source document was a raster image.
type ImageInfo struct {
	Dimensions string `json:"dimensions"` //"WxH"
	Format     string `json:"format"`
}

// TextChunk is a contiguous window of the extracted text. Number is 1-based
// and strictly increasing in document order.
type TextChunk struct {
	Number int    `json:"chunk_number"`
	Text   string `json:"text"`
}

type Entities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Numbers       []string `json:"numbers"`
	Dates         []string `json:"dates"`
}

// ChunkAnalysis is the per-chunk output of the analyzer. Error is set only
// under the best-effort failure policy, for chunks whose analysis failed.
type ChunkAnalysis struct {
	ChunkNumber int      `json:"chunk_number"`
	Keywords    []string `json:"keywords"`
	Summary     []string `json:"summary"`
	Highlights  []string `json:"highlights"`
	Entities    Entities `json:"entities"`
	Error       string   `json:"error,omitempty"`
}

// ProcessResult is the terminal artifact of one pipeline invocation. It is
// built once, never mutated and never persisted.
type ProcessResult struct {
	TotalChunks  int             `json:"total_chunks"`
	FileType     string          `json:"file_type"`
	ImageInfo    *ImageInfo      `json:"image_info,omitempty"`
	Analysis     []ChunkAnalysis `json:"analysis"`
	FinalSummary string          `json:"final_summary"`
}

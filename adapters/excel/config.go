package excel

// ReaderConfig holds configuration for the dataset reader
type ReaderConfig struct {
	// Sheet to read from workbooks; empty means the first sheet
	Sheet string `json:"sheet"`
	// Delimiter for CSV input; zero means detect from the header line
	Delimiter rune `json:"delimiter"`
}

// DefaultReaderConfig returns sensible defaults for switchback exports
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{}
}

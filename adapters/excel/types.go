package excel

// RawData is a header plus the raw string records of a sheet or CSV file
type RawData struct {
	Headers []string
	Rows    [][]string
	// Lines holds the 1-based source line (or sheet row) of each record
	Lines []int
}

package schema

// OutputMode selects the rendering format for CLI results.
type OutputMode string

// Supported output modes.
const (
	TextOut OutputMode = "text"
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	// URL is the page to extract.
	URL string
	// OutputPath receives the result; empty means stdout.
	OutputPath string
	// Format is "text" or "json".
	Format string
	// PDFPath, when set, additionally renders the record to a PDF file.
	PDFPath string

	// Fetch
	UserAgent    string
	FetchTimeout time.Duration

	// Render
	DisableRender bool
	ChromePath    string

	// Behavior
	Verbose bool
}

// UserAgentDefault identifies the tool to origin servers.
const UserAgentDefault = "clipread/1.0 (+https://github.com/clipread/clipread)"

// FetchTimeoutDefault bounds the fetch strategy's single retrieval.
const FetchTimeoutDefault = 15 * time.Second

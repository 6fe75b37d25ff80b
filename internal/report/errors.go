package report

import "errors"

var (
	// ErrInvalidPrinterConfig is returned by NewMarkdownPrinter when a URL
	// is missing or the threshold is not positive.
	ErrInvalidPrinterConfig = errors.New("invalid markdown printer configuration")

	// ErrUnknownFormat is returned by NewWriter for an unsupported format.
	ErrUnknownFormat = errors.New("unknown report format")
)

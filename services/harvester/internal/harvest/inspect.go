package harvest

import (
	"fmt"
	"io"

	"github.com/stoik/spf-harvester/services/harvester/internal/eml"
	"github.com/stoik/spf-harvester/services/harvester/internal/headers"
	"github.com/stoik/spf-harvester/services/harvester/internal/report"
)

// Inspect runs the extraction on saved .eml files instead of a Graph listing
// and writes the report to output. Files are read in the given order.
func Inspect(paths []string, output string, out io.Writer) (int, error) {
	emails, err := eml.ReadFiles(paths)
	if err != nil {
		return 0, err
	}

	records := headers.ParseAll(emails)
	fmt.Fprintf(out, "Processing complete! %d emails parsed.\n", len(records))

	if err := report.WriteFile(output, records); err != nil {
		return 0, err
	}
	fmt.Fprintf(out, "CSV file saved: %s\n", output)
	return len(records), nil
}

package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// parseCSV places the whole file as a single table, header row included.
func parseCSV(data []byte) (*FlowDocument, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	ts := newTypesetter()
	ts.table(records)
	return ts.document(), nil
}

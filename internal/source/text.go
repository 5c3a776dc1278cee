package source

import (
	"bufio"
	"bytes"
	"strings"
)

// parseText splits plain text into paragraphs on blank lines. Plain text has
// no typography, so every paragraph is body text.
func parseText(data []byte) (*FlowDocument, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ts := newTypesetter()
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			ts.paragraph(current.String())
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ts.document(), nil
}

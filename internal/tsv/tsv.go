// Package tsv parses the tab-separated blocks the drafting model is prompted
// to produce. The format is deliberately naive: a header line, tab-split data
// lines, no quoting or escaping. A literal tab or newline inside a field
// corrupts column alignment; the prompts are written so that never happens,
// and the parser must not be hardened against it.
package tsv

import (
	"fmt"
	"strings"
)

// Record is one data row, keyed by trimmed header name. Rows shorter than the
// header simply lack the trailing keys.
type Record map[string]string

// BlockSeparator is the line that splits a multi-task response into blocks.
const BlockSeparator = "----------"

// Parse converts a single TSV block into ordered records. The first line is
// the header row. Lines are not skipped when blank, so callers must trim the
// input; a lone header yields zero records.
func Parse(text string) []Record {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 0 {
		return nil
	}

	headers := splitFields(lines[0])

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitFields(line)
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = values[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// ParseColumns converts a single TSV block into positional data rows,
// discarding the header line. Used where columns are correlated by position
// rather than by header name.
func ParseColumns(text string) [][]string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, splitFields(line))
	}
	return rows
}

// ParseBlocks parses a multi-task response: blocks separated by a line of
// exactly ten dashes, keyed task1, task2, … in order. Code-fence markers are
// stripped first and blank lines inside a block are skipped.
func ParseBlocks(text string) map[string][]Record {
	text = strings.ReplaceAll(text, "```", "")

	blocks := make(map[string][]Record)
	task := 0
	for _, block := range splitOnSeparator(text) {
		task++
		key := fmt.Sprintf("task%d", task)

		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			blocks[key] = []Record{}
			continue
		}
		blocks[key] = Parse(strings.Join(lines, "\n"))
	}
	return blocks
}

// splitOnSeparator splits the text on lines consisting of exactly the ten-dash
// separator (surrounding whitespace tolerated).
func splitOnSeparator(text string) []string {
	var (
		blocks  []string
		current []string
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == BlockSeparator {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	return append(blocks, strings.Join(current, "\n"))
}

func splitFields(line string) []string {
	fields := strings.Split(line, "\t")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

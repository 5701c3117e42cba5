package infrastructure

import (
	"strconv"
	"strings"
)

// Flat-text codec for the persisted inventory columns. Matrices are
// stored as rows joined by "|" with cells joined by ";"; station and
// time lists are joined by "|". A cell that does not parse as an
// integer decodes to 0 so one corrupt cell degrades a segment instead
// of failing the load.

const (
	rowSeparator  = "|"
	cellSeparator = ";"
	listSeparator = "|"
)

func encodeMatrix(matrix [][]int) string {
	rows := make([]string, 0, len(matrix))
	for _, row := range matrix {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, strconv.Itoa(cell))
		}
		rows = append(rows, strings.Join(cells, cellSeparator))
	}
	return strings.Join(rows, rowSeparator)
}

func decodeMatrix(encoded string) [][]int {
	if encoded == "" {
		return nil
	}

	rows := strings.Split(encoded, rowSeparator)
	matrix := make([][]int, 0, len(rows))
	for _, row := range rows {
		cells := strings.Split(row, cellSeparator)
		decoded := make([]int, 0, len(cells))
		for _, cell := range cells {
			value, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				value = 0
			}
			decoded = append(decoded, value)
		}
		matrix = append(matrix, decoded)
	}
	return matrix
}

func encodeList(items []string) string {
	return strings.Join(items, listSeparator)
}

func decodeList(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, listSeparator)
}

package csvdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultFile is read from the working directory when no other path is given.
const DefaultFile = "data.csv"

// LoadFile opens path and flattens its records with Load.
func LoadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer f.Close()

	data, err := Load(f)
	if err != nil {
		return "", fmt.Errorf("failed to load csv file %s: %w", path, err)
	}
	return data, nil
}

// Load parses every record from r and rejoins its fields with commas, one
// line per record, each terminated by a newline. Rows may have differing
// field counts. The first row is kept like any other.
func Load(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var sb strings.Builder
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse csv record: %w", err)
		}

		sb.WriteString(strings.Join(record, ","))
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

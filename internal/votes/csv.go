package votes

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses a vote table with header
//
//	legislator,party,rollcall,code
//
// Column order is taken from the header, so extra columns are ignored
// and order does not matter. The code column must be an integer.
func ReadCSV(r io.Reader) ([]RawVote, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read votes csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read votes csv header: %w", err)
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"legislator", "party", "rollcall", "code"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("read votes csv: missing column %q", want)
		}
	}

	var records []RawVote
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read votes csv line %d: %w", line, err)
		}
		code, err := strconv.Atoi(strings.TrimSpace(row[col["code"]]))
		if err != nil {
			return nil, fmt.Errorf("read votes csv line %d: bad code %q", line, row[col["code"]])
		}
		records = append(records, RawVote{
			Legislator: row[col["legislator"]],
			Party:      row[col["party"]],
			RollCall:   row[col["rollcall"]],
			Code:       code,
		})
	}
	return records, nil
}

package extract

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LooseString accepts a json string, number or null. The university systems
// are not consistent about quoting ids, credits and barcodes.
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		err := json.Unmarshal(data, &str)
		if err != nil {
			return err
		}
		*s = LooseString(str)
		return nil
	}
	var num json.Number
	err := json.Unmarshal(data, &num)
	if err != nil {
		return err
	}
	*s = LooseString(num.String())
	return nil
}

func (s LooseString) String() string {
	return string(s)
}

// Int returns 0 when the value is not an integer.
func (s LooseString) Int() int {
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return 0
	}
	return n
}

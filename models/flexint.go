package models

import (
	"bytes"
	"fmt"
	"strconv"
)

// FlexInt is an integer the exchange serializes inconsistently: pagination
// counters arrive either as JSON numbers or as quoted strings depending on
// the endpoint.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", data, err)
	}
	*f = FlexInt(n)
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// Int returns the plain integer value.
func (f FlexInt) Int() int {
	return int(f)
}

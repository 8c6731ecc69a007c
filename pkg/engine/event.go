package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyLine is returned by ParseEvent for blank lines and comments
var ErrEmptyLine = errors.New("empty line")

// ParseEvent parses a line of the form "<address> <value>". Blank lines and
// lines starting with # yield ErrEmptyLine.
func ParseEvent(line string) (Event, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Event{}, ErrEmptyLine
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("expected \"<address> <value>\", got %q", line)
	}
	if !strings.HasPrefix(fields[0], "/") {
		return Event{}, fmt.Errorf("address must start with /: %q", fields[0])
	}
	v, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return Event{}, fmt.Errorf("invalid value %q: %w", fields[1], err)
	}
	return Event{Address: fields[0], Value: float32(v)}, nil
}

package templates

import (
	"fmt"
	"strconv"
	"strings"
)

func prefixedStrings(prefix string, count int) string {
	var sb strings.Builder
	for i := 0; i < count; i++ {
		sb.WriteString(prefix)
		sb.WriteString(strconv.Itoa(i))
		if i < count-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// cellParams renders "c0 *provider.Cell[T0], c1 *provider.Cell[T1], ...".
func cellParams(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = fmt.Sprintf("c%d *provider.Cell[T%d]", i, i)
	}
	return strings.Join(parts, ", ")
}

// valueArgs renders "as[T0](values[0]), as[T1](values[1]), ...".
func valueArgs(count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = fmt.Sprintf("as[T%d](values[%d])", i, i)
	}
	return strings.Join(parts, ", ")
}

func plural(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(count) + " " + noun + "s"
}

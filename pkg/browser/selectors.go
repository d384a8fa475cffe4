package browser

import (
	"fmt"
	"strings"
)

// Match is an attribute selector operator.
type Match string

const (
	Equals     Match = "="
	StartsWith Match = "^="
	EndsWith   Match = "$="
	Contains   Match = "*="
)

// Attr builds an attribute selector such as [name^="value"].
func Attr(name string, match Match, value string) string {
	if match == "" {
		match = Equals
	}
	return fmt.Sprintf(`[%s%s"%s"]`, name, match, value)
}

// DataAttr selects on a data-* attribute.
func DataAttr(dataName string, match Match, value string) string {
	return Attr("data-"+dataName, match, value)
}

// DataCy selects on the data-cy attribute.
func DataCy(value string) string {
	return DataAttr("cy", Equals, value)
}

// DataCyAdv selects on data-cy and then narrows with more, a descendant selector.
func DataCyAdv(value, more string) string {
	return strings.TrimSpace(DataCy(value) + " " + more)
}

// DataAdv selects on a data-* attribute and then narrows with more.
func DataAdv(dataName, value, more string) string {
	return strings.TrimSpace(DataAttr(dataName, Equals, value) + " " + more)
}

// Class selects on the class attribute. Equals selects by class name.
func Class(match Match, className string) string {
	if match == "" || match == Equals {
		return "." + className
	}
	return Attr("class", match, className)
}

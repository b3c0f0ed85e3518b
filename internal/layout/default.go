package layout

import (
	_ "embed"
	"strings"
)

//go:embed standard.txt
var standardLayout string

// DefaultName is the name the embedded layout is stored under.
const DefaultName = "standard"

// Default returns the embedded standard table: six pockets and a fifteen
// ball rack.
func Default() *Layout {
	l, err := ParseText(strings.NewReader(standardLayout))
	if err != nil {
		panic("layout: embedded standard table: " + err.Error())
	}
	return l
}

// Standard returns the embedded layout source in the text format.
func Standard() string {
	return standardLayout
}

package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  _   _ _     ____  ", "#34d399"},
	{" | \\ | | |   / ___| ", "#2dd4bf"},
	{" |  \\| | |   \\___ \\ ", "#22d3ee"},
	{" | |\\  | |___ ___) |", "#38bdf8"},
	{" |_| \\_|_____|____/ ", "#60a5fa"},
}

// PrintBanner writes the NLS banner and version to w, colored when w is a terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String(" natural-language scenario editing "+version).Faint())
	fmt.Fprintln(w)
}

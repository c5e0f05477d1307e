package pretty

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/veldtlabs/sbomstage/common"
)

var (
	Colorless   bool
	Iconic      bool
	Disabled    bool
	Interactive bool
	White       string
	Grey        string
	Black       string
	Red         string
	Green       string
	Blue        string
	Yellow      string
	Magenta     string
	Cyan        string
	Reset       string
	Sparkles    string
	Rocket      string
	Bold        string
	Faint       string
	Italic      string
	Underline   string
)

func csi(code string) string {
	return fmt.Sprintf("\033[%s", code)
}

func Setup() {
	stdin := isatty.IsTerminal(os.Stdin.Fd())
	stdout := isatty.IsTerminal(os.Stdout.Fd())
	stderr := isatty.IsTerminal(os.Stderr.Fd())

	if os.Getenv("NO_COLOR") != "" {
		Colorless = true
	}
	if os.Getenv("TERM") == "" || os.Getenv("TERM") == "dumb" {
		Colorless = true
	}
	// CI runners are never interactive, regardless of TTY emulation.
	if os.Getenv("CI") != "" {
		Interactive = false
	} else {
		Interactive = stdin && stdout && stderr
	}

	visualOutput := stdout && !Colorless

	common.Trace("Interactive mode enabled: %v; colors enabled: %v", Interactive, visualOutput)
	if visualOutput && !Disabled {
		White = csi("97m")
		Grey = csi("90m")
		Black = csi("30m")
		Red = csi("91m")
		Green = csi("92m")
		Yellow = csi("93m")
		Blue = csi("94m")
		Magenta = csi("95m")
		Cyan = csi("96m")
		Reset = csi("0m")
		Bold = csi("1m")
		Faint = csi("2m")
		Italic = csi("3m")
		Underline = csi("4m")
		Iconic = true
	}
	if Iconic && !Colorless {
		Sparkles = "✨ "
		Rocket = "\U0001F680 "
	}
}

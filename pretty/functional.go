package pretty

import (
	"fmt"

	"github.com/veldtlabs/sbomstage/common"
)

// Guard checks the condition and on failure panics with an exit code
// that the main level exit protection converts to a clean process exit.
func Guard(condition bool, code int, form string, details ...interface{}) {
	if !condition {
		Exit(code, form, details...)
	}
}

func Exit(code int, form string, details ...interface{}) error {
	message := fmt.Sprintf(form, details...)
	if code == 0 {
		message = fmt.Sprintf("%s%s%s", Green, message, Reset)
	} else {
		message = fmt.Sprintf("%s%s%s", Red, message, Reset)
	}
	panic(common.ExitCode{Code: code, Message: message})
}

// Ok is a convenience exit for the success path of commands.
func Ok() error {
	return Exit(0, "OK.")
}

func Warning(form string, details ...interface{}) {
	common.Log("%sWarning: %s%s", Yellow, fmt.Sprintf(form, details...), Reset)
}

func Highlight(form string, details ...interface{}) {
	common.Log("%s%s%s", Cyan, fmt.Sprintf(form, details...), Reset)
}

func Note(form string, details ...interface{}) {
	common.Log("%s%sNote: %s%s", Bold, Yellow, fmt.Sprintf(form, details...), Reset)
}

func DebugNote(form string, details ...interface{}) {
	common.Debug("%s%s%s", Faint, fmt.Sprintf(form, details...), Reset)
}

package common

type ExitCode struct {
	Code    int
	Message string
}

func (it ExitCode) ShowMessage() {
	Log("%s", it.Message)
}

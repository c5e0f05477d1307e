package main

import (
	"os"

	"github.com/veldtlabs/sbomstage/cmd"
	"github.com/veldtlabs/sbomstage/common"
)

func ExitProtection() {
	status := recover()
	if status != nil {
		exit, ok := status.(common.ExitCode)
		if ok {
			exit.ShowMessage()
			common.WaitLogs()
			os.Exit(exit.Code)
		}
		common.WaitLogs()
		panic(status)
	}
	common.WaitLogs()
}

func main() {
	defer ExitProtection()
	cmd.Execute()
}

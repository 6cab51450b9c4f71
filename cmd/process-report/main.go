// cmd/process-report/main.go
package main

import (
	"metaxsfr/internal/appshell"
	"metaxsfr/internal/processapp"
)

func main() { appshell.Main(processapp.RunContext) }

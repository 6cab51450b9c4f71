// cmd/generate-report/main.go
package main

import (
	"metaxsfr/internal/appshell"
	"metaxsfr/internal/generateapp"
)

func main() { appshell.Main(generateapp.RunContext) }

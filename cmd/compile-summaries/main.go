// cmd/compile-summaries/main.go
package main

import (
	"metaxsfr/internal/appshell"
	"metaxsfr/internal/compileapp"
)

func main() { appshell.Main(compileapp.RunContext) }

// cmd/seqalign-tune/main.go
package main

import (
	"seqalign/internal/appshell"
	"seqalign/internal/tuneapp"
)

func main() { appshell.Main(tuneapp.RunContext) }

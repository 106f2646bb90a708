package main

import (
	_ "embed"

	"github.com/haierkeys/fast-vault-sync-service/cmd"
)

//go:embed config/config.yaml
var defaultConfig string

func main() {
	cmd.Execute(defaultConfig)
}

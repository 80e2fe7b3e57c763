/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/btreemset/cmd/msetd/cmd"
	"github.com/ssargent/btreemset/pkg/di"
)

func main() {
	container := di.NewContainer()

	cmd.SetContainer(container)

	cmd.Execute()
}

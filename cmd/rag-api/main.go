// Package main is the entry point for the LiteRAG API service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/literag/literag/internal/ragapi"
)

func main() {
	ragapi.NewApp().Run()
}

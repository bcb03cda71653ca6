// Package main is the entry point for the LiteRAG embedding service.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/literag/literag/internal/embedding"
)

func main() {
	embedding.NewApp().Run()
}

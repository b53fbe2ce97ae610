package main

import "go.minekube.com/stampede/pkg/cmd/stampede"

func main() {
	stampede.Execute()
}

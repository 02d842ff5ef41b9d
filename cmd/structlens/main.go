package main

import "github.com/mvp-joe/structlens/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/sjzar/whisperd/cmd/whisperd"

func main() {
	whisperd.Execute()
}

// Cachesim replays memory access traces through a set-associative cache.
package main

import "github.com/sarchlab/cachesim/cmd"

func main() {
	cmd.Execute()
}

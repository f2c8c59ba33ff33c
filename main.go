package main

import (
	"manyglibc/internal/manyglibc"
)

func main() {
	manyglibc.Main()
}

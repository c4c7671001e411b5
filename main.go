package main

import "github.com/AdvikSudM12/scan-key/cmd/scankey"

func main() { scankey.Execute() }

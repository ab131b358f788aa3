package main

import "github.com/swpdata/sitecat/cmd"

func main() {
	cmd.Execute()
}

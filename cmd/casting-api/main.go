package main

import "github.com/upb/casting-agency/cmd/casting-api/cmd"

func main() {
	cmd.Execute()
}

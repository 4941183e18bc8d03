package main

import "github.com/SAP-F-2025/educloud-dashboard/cmd"

func main() {
	cmd.Execute()
}

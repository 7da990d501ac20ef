package main

import "marketplace-web/cmd/marketplace/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/Mohsinsiddi/mintgate/cmd"

func main() {
	cmd.Execute()
}

// apicheck runs the verification suite against a deployed uploads API.
package main

import "github.com/information-sharing-networks/uploads-apicheck/internal/cli"

func main() {
	cli.Execute()
}

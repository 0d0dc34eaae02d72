// Command cosimctl runs co-simulation scenarios and inspects their
// recordings.
package main

import "github.com/sarchlab/cosim/cosimctl/cmd"

func main() {
	cmd.Execute()
}

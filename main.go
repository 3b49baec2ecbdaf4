// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/modgraph/modgraph/cmd/modgraph"

func main() {
	cmd.Execute()
}

// SPDX-License-Identifier: MPL-2.0

package main

import cmd "tailor-cli/cmd/tailor"

func main() {
	cmd.Execute()
}

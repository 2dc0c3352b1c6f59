// Command keymapctl parses, checks and explores key binding files.
package main

import "os"

func main() {
	os.Exit(execute(os.Args[1:]))
}

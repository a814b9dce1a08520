// Command federation serves CCDI federation documents rewritten by a
// declarative, hot-reloadable rule file.
package main

func main() {
	Execute()
}

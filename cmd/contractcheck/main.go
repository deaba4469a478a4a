// Command contractcheck validates data contract workbooks against the rule
// catalog and serves the resulting reports.
package main

func main() {
	Execute()
}

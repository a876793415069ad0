// Command valuescore runs the life-values questionnaire as an HTTP service
// and offers the same operations from the command line.
package main

func main() {
	Execute()
}

// Package main provides the entry point for the seoscan CLI.
//
// seoscan researches the audience of a target website: it collects
// questions from forum communities, analyzes the site with a language
// model, and writes the results into a shared spreadsheet.
//
// Usage:
//
//	seoscan research <target-website>
//	seoscan watch
//
// See --help for all available options.
package main

// main is the entry point for seoscan.
func main() {
	Execute()
}

// Package main provides the entry point for the appmodkit CLI.
//
// appmodkit supports application modernization workflows. It turns an
// AppCat assessment report into a markdown summary and manages numbered
// modernization plans in the repository.
//
// Usage:
//
//	appmodkit assess --output-path <dir>
//	appmodkit create-plan --short-name <name>
//	appmodkit run-plan
//
// See --help for all available options.
package main

// main is the entry point for appmodkit.
func main() {
	Execute()
}

// Package main provides the entry point for the vistoria CLI.
//
// vistoria turns vehicle inspection form answers into non-conformity
// reports grouped by vehicle area.
//
// Usage:
//
//	vistoria list
//	vistoria report <index>
//	vistoria report --all -o reports/
//	vistoria serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}

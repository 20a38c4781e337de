// Command advection runs the periodic 1-D advection testbed: it compares
// semi-Lagrangian steppings and Lax-Wendroff schemes on a translating step,
// dumps the curves and serves interactive charts of the results.
package main

func main() {
	Execute()
}

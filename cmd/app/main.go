// Image Processing App
// License: MIT

package main

func main() {
	Execute()
}

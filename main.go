package main

import "github.com/pdfjs/pdfmake/cmd"

func main() {
	cmd.Execute()
}

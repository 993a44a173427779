package main

import "blog-cms/cmd"

func main() {
	cmd.Execute()
}

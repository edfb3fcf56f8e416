package main

import "github.com/ValentinKolb/qkv/cmd"

func main() {
	cmd.Execute()
}

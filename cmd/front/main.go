package main

import (
	"flag"

	"multi-git-dashboard/internal/front"
)

func main() {
	confPath := flag.String("config", "configs/front.env", "path to the env file")
	flag.Parse()

	front.InitAndServe(*confPath)
}

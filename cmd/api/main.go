package main

import (
	"flag"

	"multi-git-dashboard/internal/mcourse"
)

func main() {
	confPath := flag.String("config", "configs/api.env", "path to the env file")
	flag.Parse()

	mcourse.InitAndServe(*confPath)
}

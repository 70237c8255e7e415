package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	srafetch "github.com/dfornika/sra-fetch-metadata"
	"github.com/mitchellh/go-homedir"
)

func main() {

	home, err := homedir.Dir()
	if err != nil {
		panic(err)
	}

	cacheDir := flag.String("cache", filepath.Join(home, srafetch.DefaultCacheDir), "srafetch cache dir")
	noCache := flag.Bool("C", false, "bypass the cache")
	maxSamples := flag.Int("m", srafetch.DefaultMaxSamples, "maximum number of samples to request")
	showInfo := flag.Bool("id", false, "show project info")
	showVersion := flag.Bool("v", false, "prints current program version")
	verbose := flag.Bool("verbose", false, "more output")

	flag.Parse()

	if *showVersion {
		fmt.Println(srafetch.Version)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		log.Fatal("project ID required")
	}

	project := flag.Arg(0)

	srafetch.Verbose = *verbose

	if *showInfo {
		info, err := srafetch.ProjectInfo(srafetch.NewClient(), project)
		if err != nil {
			log.Fatal(err)
		}
		b, err := json.Marshal(info)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(b))
		os.Exit(0)
	}

	harvester := srafetch.NewHarvester()
	harvester.MaxSamples = *maxSamples

	if !*noCache {
		cache, err := srafetch.NewDirCache(*cacheDir)
		if err != nil {
			log.Fatal(err)
		}
		harvester.Cache = &cache
	}

	if err := harvester.Run(project, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	srafetch "github.com/dfornika/sra-fetch-metadata"
)

// readProjects returns one project ID per line, skipping blanks. The last
// line may be unterminated.
func readProjects(r io.Reader) ([]string, error) {
	var projects []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		project := strings.TrimSpace(scanner.Text())
		if project == "" {
			continue
		}
		projects = append(projects, project)
	}
	return projects, scanner.Err()
}

func worker(queue, out chan string, wg *sync.WaitGroup) {
	defer wg.Done()
	client := srafetch.NewClient()
	for project := range queue {
		m, err := srafetch.ProjectInfo(client, project)
		if err != nil {
			log.Printf("failed: %s", project)
			continue
		}
		b, err := json.Marshal(m)
		if err != nil {
			log.Fatal(err)
		}
		out <- string(b)
		log.Printf("done: %s", project)
	}
}

func main() {
	workers := flag.Int("w", 8, "requests in parallel")
	verbose := flag.Bool("verbose", false, "be verbose")

	flag.Parse()

	srafetch.Verbose = *verbose

	var reader io.Reader = os.Stdin
	if flag.NArg() > 0 {
		file, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		reader = file
	}

	projects, err := readProjects(reader)
	if err != nil {
		log.Fatal(err)
	}

	queue := make(chan string)
	out := make(chan string)
	done := make(chan bool)

	var wg sync.WaitGroup

	go func() {
		for s := range out {
			fmt.Println(s)
		}
		done <- true
	}()

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go worker(queue, out, &wg)
	}

	for _, project := range projects {
		queue <- project
	}

	close(queue)
	wg.Wait()
	close(out)
	<-done
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"qnotehub/internal/crawler"
	"qnotehub/internal/export"
	"qnotehub/pkg/database"
	"qnotehub/pkg/models"
	"qnotehub/pkg/utils"
)

func main() {
	var (
		numBooks    = flag.Int("books", 2, "number of books to crawl")
		numChapters = flag.Int("chapters", 5, "number of chapters per book")
		interactive = flag.Bool("i", false, "prompt for counts on stdin")
		noDB        = flag.Bool("no-db", false, "skip persisting results to sqlite")
	)
	flag.Parse()

	if *interactive {
		*numBooks = prompt("Number of books (default 2): ", 2)
		*numChapters = prompt("Chapters per book (default 5): ", 5)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg := crawler.DefaultConfig()
	c := crawler.New(cfg, crawler.NewFetcher(cfg), nil)

	req := models.CrawlRequest{NumBooks: *numBooks, NumChapters: *numChapters}
	result, err := c.Crawl(ctx, req)
	if err != nil {
		log.Fatalf("crawl failed: %v", err)
	}
	books := result.AllBooks()

	if !*noDB {
		db := database.MustOpen(database.DefaultConfig())
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		if err := crawler.SaveToDatabase(ctx, db, books); err != nil {
			log.Fatalf("save failed: %v", err)
		}
	}

	exporter := export.NewExporter(utils.LoadServerConfig().OutputDir)
	path, err := exporter.SaveJSON(result)
	if err != nil {
		log.Fatalf("write json failed: %v", err)
	}

	log.Printf("✅ crawled %d books, saved to %s", len(books), path)
}

func prompt(label string, def int) int {
	fmt.Print(label)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return def
	}
	text := strings.TrimSpace(sc.Text())
	if text == "" {
		return def
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		fmt.Printf("invalid number, using default %d\n", def)
		return def
	}
	return n
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"qnotehub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type bookListResponse struct {
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Items  []models.BookDB `json:"items"`
}

func main() {
	global := flag.NewFlagSet("qnotehub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	switch cmd {
	case "crawl":
		handleCrawl(ctx, client, *baseURL, sub, args[1:])
	case "books":
		handleBooks(ctx, client, *baseURL, sub, tailArgs(args, 2))
	case "watch":
		handleWatch(*baseURL, args[1:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleCrawl(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	endpoint := baseURL + "/api/crawl"
	switch sub {
	case "save":
		endpoint = baseURL + "/api/crawl_and_save"
		args = args[1:]
	case "export":
		endpoint = baseURL + "/api/crawl_and_export"
		args = args[1:]
	}

	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	numBooks := fs.Int("books", 2, "number of books")
	numChapters := fs.Int("chapters", 5, "chapters per book")
	_ = fs.Parse(args)

	payload := map[string]any{
		"num_books":    *numBooks,
		"num_chapters": *numChapters,
	}
	var resp map[string]any
	if err := doJSON(ctx, client, http.MethodPost, endpoint, payload, &resp); err != nil {
		log.Fatalf("crawl failed: %v", err)
	}
	printJSON(resp)
}

func handleBooks(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("books list", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		category := fs.String("category", "", "category filter")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/books")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *query != "" {
			qv.Set("q", *query)
		}
		if *category != "" {
			qv.Set("category", *category)
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp bookListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("books show", flag.ExitOnError)
		id := fs.String("id", "", "book id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("book id is required")
		}

		var resp models.BookDB
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/books/"+url.PathEscape(*id), nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: qnotehub books <list|show>")
	}
}

func handleWatch(baseURL string, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
	_ = fs.Parse(args)

	endpoint := *wsURL
	if endpoint == "" {
		var err error
		endpoint, err = websocketURL(baseURL, "/ws")
		if err != nil {
			log.Fatalf("ws url: %v", err)
		}
	}
	if err := runWebSocket(endpoint); err != nil {
		log.Fatalf("watch failed: %v", err)
	}
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[watch] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

// tailArgs returns the arguments after position n, or nil when the
// command line is shorter than that.
func tailArgs(args []string, n int) []string {
	if len(args) <= n {
		return nil
	}
	return args[n:]
}

func printUsage() {
	fmt.Println("qnotehub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  crawl [save|export] -books N -chapters M")
	fmt.Println("  books list|show")
	fmt.Println("  watch")
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/use-agent/shopscout/transport"
)

func main() {
	baseURL := flag.String("addr", "http://127.0.0.1:8787", "shopscout-server base URL")
	toolName := flag.String("tool", "", "tool name to call; if empty, lists available tools")
	argsJSON := flag.String("args", "{}", "JSON object of tool arguments")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for the client session")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := transport.NewClient(ctx, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}

	if *toolName == "" {
		result, err := client.ListTools(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tools/list: %v\n", err)
			os.Exit(1)
		}
		printJSON(result)
		return
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(*argsJSON), &args); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -args JSON: %v\n", err)
		os.Exit(1)
	}

	result, err := client.CallTool(ctx, *toolName, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tools/call %s: %v\n", *toolName, err)
		os.Exit(1)
	}
	printJSON(result)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stdout, v)
		return
	}
	fmt.Fprintln(os.Stdout, strings.TrimSpace(string(out)))
}

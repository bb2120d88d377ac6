package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cgviewer/internal/callgrind"
	"cgviewer/internal/query"
)

// modelCache holds every parsed Model keyed by absolute file path.
// mcp-go may dispatch tool calls concurrently over stdio, so access is
// guarded; parsing itself happens outside the lock and is only
// published to the cache once complete.
type modelCache struct {
	mu     sync.RWMutex
	models map[string]*callgrind.Model
}

func newModelCache() *modelCache {
	return &modelCache{models: make(map[string]*callgrind.Model)}
}

func (c *modelCache) get(path string) (*callgrind.Model, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.models[path]
	return m, ok
}

func (c *modelCache) put(path string, m *callgrind.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models[path] = m
}

var cache = newModelCache()

func resolvePath(filePath string) (string, error) {
	return filepath.Abs(filePath)
}

// resolveUnique finds the entries FindEntries matches for symbol against
// the model cached for filePath, returning an error result if the model
// isn't loaded, or if the match isn't exactly one entry.
func resolveUnique(filePath, symbol string) (*callgrind.Model, *callgrind.Entry, *mcp.CallToolResult) {
	path, err := resolvePath(filePath)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(err.Error())
	}
	model, ok := cache.get(path)
	if !ok {
		return nil, nil, mcp.NewToolResultError("file not loaded. Call the load tool first")
	}
	matches := query.FindEntries(model, symbol)
	switch len(matches) {
	case 0:
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("no entry matching %q", symbol))
	case 1:
		return model, matches[0], nil
	default:
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf(
			"symbol %q is ambiguous (%d matches); use the find tool to narrow it down", symbol, len(matches)))
	}
}

func main() {
	s := server.NewMCPServer(
		"cgviewer",
		"1.0.0",
		server.WithLogging(),
	)

	loadTool := mcp.NewTool("load",
		mcp.WithDescription("Parse a Callgrind profile output file and cache the resulting call graph for the other tools."),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to a Callgrind output file (e.g. callgrind.out.1234)"),
		),
	)

	s.AddTool(loadTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path, err := resolvePath(filePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		f, err := os.Open(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to open %s: %v", path, err)), nil
		}
		defer f.Close()

		model, err := callgrind.Parse(f)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse %s: %v", path, err)), nil
		}
		cache.put(path, model)

		result := fmt.Sprintf(
			"Loaded %s\nEvents: %v\nPosition axes: %v\nEntries: %d\n",
			path, model.Events(), model.Positions(), len(model.Entries()))
		return mcp.NewToolResultText(result), nil
	})

	hotTool := mcp.NewTool("hot",
		mcp.WithDescription("List the hottest entries in a loaded profile by inclusive cost of the first event."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path passed to load")),
		mcp.WithNumber("top_n", mcp.Description("Number of entries to return (default 10)")),
	)

	s.AddTool(hotTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path, err := resolvePath(filePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		model, ok := cache.get(path)
		if !ok {
			return mcp.NewToolResultError("file not loaded. Call the load tool first"), nil
		}
		topN := int(request.GetFloat("top_n", 10.0))

		return mcp.NewToolResultText(query.FormatHot(model.Entries(), topN)), nil
	})

	treeTool := mcp.NewTool("tree",
		mcp.WithDescription("Render the callee tree rooted at the entry whose symbol matches the given substring."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path passed to load")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Substring of the symbol to root the tree at")),
		mcp.WithNumber("max_depth", mcp.Description("Maximum tree depth (default 4)")),
		mcp.WithNumber("min_pct", mcp.Description("Prune branches below this percentage (default 1.0)")),
	)

	s.AddTool(treeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		symbol, err := request.RequireString("symbol")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		_, entry, errResult := resolveUnique(filePath, symbol)
		if errResult != nil {
			return errResult, nil
		}
		maxDepth := int(request.GetFloat("max_depth", 4.0))
		minPct := request.GetFloat("min_pct", 1.0)

		tree := query.Callees(entry, maxDepth, minPct)
		return mcp.NewToolResultText(query.FormatTree(tree)), nil
	})

	callersTool := mcp.NewTool("callers",
		mcp.WithDescription("Render the caller tree of the entry whose symbol matches the given substring."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path passed to load")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Substring of the symbol to root the tree at")),
		mcp.WithNumber("max_depth", mcp.Description("Maximum tree depth (default 4)")),
		mcp.WithNumber("min_pct", mcp.Description("Prune branches below this percentage (default 1.0)")),
	)

	s.AddTool(callersTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		symbol, err := request.RequireString("symbol")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		_, entry, errResult := resolveUnique(filePath, symbol)
		if errResult != nil {
			return errResult, nil
		}
		maxDepth := int(request.GetFloat("max_depth", 4.0))
		minPct := request.GetFloat("min_pct", 1.0)

		tree := query.Callers(entry, maxDepth, minPct)
		return mcp.NewToolResultText(query.FormatTree(tree)), nil
	})

	findTool := mcp.NewTool("find",
		mcp.WithDescription("List every entry whose symbol contains the given substring, to help pick an unambiguous symbol for the tree/callers tools."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path passed to load")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Substring to search for")),
	)

	s.AddTool(findTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		symbol, err := request.RequireString("symbol")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path, err := resolvePath(filePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		model, ok := cache.get(path)
		if !ok {
			return mcp.NewToolResultError("file not loaded. Call the load tool first"), nil
		}
		matches := query.FindEntries(model, symbol)
		return mcp.NewToolResultText(query.FormatFindResults(matches)), nil
	})

	entryTool := mcp.NewTool("entry",
		mcp.WithDescription("Show full detail for one unambiguous entry: its position, cost specs, outbound calls, and callers."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path passed to load")),
		mcp.WithString("symbol", mcp.Required(), mcp.Description("Substring of the symbol to look up")),
	)

	s.AddTool(entryTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		symbol, err := request.RequireString("symbol")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		_, entry, errResult := resolveUnique(filePath, symbol)
		if errResult != nil {
			return errResult, nil
		}
		return mcp.NewToolResultText(query.FormatEntryDetail(entry)), nil
	})

	statsTool := mcp.NewTool("stats",
		mcp.WithDescription("Show summary statistics for a loaded profile: entry/position counts, max and total cost, cyclic entries."),
		mcp.WithString("file_path", mcp.Required(), mcp.Description("Path passed to load")),
	)

	s.AddTool(statsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filePath, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		path, err := resolvePath(filePath)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		model, ok := cache.get(path)
		if !ok {
			return mcp.NewToolResultError("file not loaded. Call the load tool first"), nil
		}
		return mcp.NewToolResultText(query.FormatStats(query.Stats(model))), nil
	})

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

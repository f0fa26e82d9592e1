package mcp

import "github.com/mark3labs/mcp-go/mcp"

var stringItems = map[string]any{"type": "string"}

func parseComponentTool() mcp.Tool {
	return mcp.NewTool("parse_component",
		mcp.WithDescription("Document one component: props, data, computed properties, methods, events, slots and model. "+
			"Pass a file path, or inline source in content."),
		mcp.WithString("path",
			mcp.Description("Component file, relative to the workspace root. Used as the file name when content is given."),
		),
		mcp.WithString("content",
			mcp.Description("Inline component source. Takes precedence over reading path."),
		),
	)
}

func scanComponentsTool() mcp.Tool {
	return mcp.NewTool("scan_components",
		mcp.WithDescription("Document every component under a directory and refresh the component index. Returns scan statistics and per-file failures."),
		mcp.WithString("path",
			mcp.Description("Directory to scan, relative to the workspace root. Defaults to the root."),
		),
		mcp.WithArray("include",
			mcp.Description("Glob patterns of files to document, e.g. src/**/*.vue"),
			mcp.Items(stringItems),
		),
		mcp.WithArray("exclude",
			mcp.Description("Glob patterns of files and directories to skip"),
			mcp.Items(stringItems),
		),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List indexed components with their path and description, optionally filtered by @category or keyword."),
		mcp.WithString("category",
			mcp.Description("Only components tagged with this @category"),
		),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive match against name and description"),
		),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool("get_component",
		mcp.WithDescription("Full documentation of an indexed component, looked up by name or file path."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component name, or its file path relative to the workspace root"),
		),
		mcp.WithBoolean("summary",
			mcp.Description("Return the flattened summary instead of every entry"),
		),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool("search_components",
		mcp.WithDescription("Search indexed components by name, description, prop name or event name."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text"),
		),
	)
}

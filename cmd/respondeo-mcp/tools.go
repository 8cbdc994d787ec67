package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createAskGuidelinesTool returns the ask_guidelines tool definition
func createAskGuidelinesTool() mcp.Tool {
	return mcp.NewTool("ask_guidelines",
		mcp.WithDescription("Ask a question against the clinical guidelines knowledge base and get a grounded answer with citations"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to answer from the guidelines"),
		),
	)
}

// createRetrievePassagesTool returns the retrieve_passages tool definition
func createRetrievePassagesTool() mcp.Tool {
	return mcp.NewTool("retrieve_passages",
		mcp.WithDescription("Retrieve the raw knowledge base passages most relevant to a query, without generating an answer"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query for the knowledge base"),
		),
	)
}

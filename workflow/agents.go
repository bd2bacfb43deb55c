// Fixed agent configurations for the routing workflow.
//
// All five agents are immutable value objects constructed once at process
// start. Instructions are static prompt text; tool declarations are
// forwarded to the execution service, which performs the actual searches.

package workflow

import (
	"encoding/json"

	"github.com/richinex/switchboard/agent"
	"github.com/richinex/switchboard/llm"
)

// classifySchema is the structured output shape of the classify agent.
var classifySchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"operating_procedure": {
			"type": "string",
			"description": "Either 'q-and-a' for internal knowledge base questions or 'fact-finding' for questions requiring external research."
		}
	},
	"required": ["operating_procedure"],
	"additionalProperties": false
}`)

// fileSearchTool searches the internal knowledge base.
var fileSearchTool = llm.ToolDefinition{
	Name:        "file_search",
	Description: "Search the internal knowledge base documents for passages relevant to a query.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search query.",
			},
		},
		"required": []string{"query"},
	},
}

// webSearchTool performs an external web search.
var webSearchTool = llm.ToolDefinition{
	Name:        "web_search",
	Description: "Search the web for recent, reliable information addressing a query.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search query.",
			},
		},
		"required": []string{"query"},
	},
}

// codeInterpreterTool runs data analysis over search results.
var codeInterpreterTool = llm.ToolDefinition{
	Name:        "code_interpreter",
	Description: "Execute code to analyze or compare data gathered while answering the query.",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"code": map[string]interface{}{
				"type":        "string",
				"description": "The code to execute.",
			},
		},
		"required": []string{"code"},
	},
}

// queryRewriteAgent rewrites the raw user question before classification.
var queryRewriteAgent = agent.Config{
	Name:         "Query rewrite",
	Instructions: "Rewrite the user's question to be more specific and relevant to the knowledge base.",
	Model:        llm.ModelOpenAIGPT5,
}

// classifyAgent picks the operating procedure for the rewritten question.
var classifyAgent = agent.Config{
	Name:           "Classify",
	Instructions:   "Determine whether the question should use the Q&A or fact-finding process.",
	Model:          llm.ModelOpenAIGPT5,
	ResponseSchema: classifySchema,
}

// internalQAAgent answers from the internal knowledge base.
var internalQAAgent = agent.Config{
	Name:         "Internal Q&A",
	Instructions: "Answer the user's question using the knowledge tools you have on hand (file or web search). Be concise and answer succinctly, using bullet points and summarizing the answer up front",
	Model:        llm.ModelOpenAIGPT5,
	Tools:        []llm.ToolDefinition{fileSearchTool},
}

// externalFactFindingAgent researches the answer on the open web.
var externalFactFindingAgent = agent.Config{
	Name: "External fact finding",
	Instructions: "Use web search to identify the answer to the input query, and provide a concise response supported by evidence from reputable sources, each clearly cited.\n\n" +
		"Analyze relevant data from your search results before answering. If you find conflicting information, indicate this in your supporting evidence.\n\n" +
		"In your final output, always:\n" +
		"- Provide a short, direct answer first.\n" +
		"- Follow with bullet points summarizing supporting evidence, each with a source clearly indicated (with URL or publication name).\n" +
		"- Ensure each bullet point corresponds to a different relevant source when available.\n" +
		"# Steps\n\n" +
		"1. Perform a web search using appropriate tools to find recent, reliable information addressing the user query.\n" +
		"2. Analyze and compare the top sources for accuracy and relevance.\n" +
		"3. Summarize your findings and compose a concise answer.\n" +
		"4. Present supporting bullet points, each citing its original source.\n" +
		"5. If significant discrepancies are present between sources, note these in your evidence.\n\n" +
		"# Output Format\n\n" +
		"- Short direct answer (1–3 sentences).\n" +
		"- Bullet point list of 2–5 supporting facts or data, each with source attribution.\n",
	Model: llm.ModelOpenAIGPT5,
	Tools: []llm.ToolDefinition{webSearchTool, codeInterpreterTool},
}

// fallbackAgent asks the user for clarification when no procedure matches.
var fallbackAgent = agent.Config{
	Name:         "Agent",
	Instructions: "Ask the user to provide more detail so you can help them by either answering their question or running data analysis relevant to their query",
	Model:        llm.ModelOpenAIGPT41Nano,
	Settings: &agent.GenerationSettings{
		Temperature: 1,
		MaxTokens:   2048,
	},
}

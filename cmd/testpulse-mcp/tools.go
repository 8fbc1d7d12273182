package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// toolRoutes maps each tool name to its route under the configured base path.
// Every catalog entry has exactly one route here and vice versa; the bijection
// is asserted in tests so the catalog and dispatch can never drift apart.
var toolRoutes = map[string]string{
	"get_test_history":         "/history",
	"get_test_errors":          "/errors",
	"get_failure_patterns":     "/patterns",
	"get_correlated_failures":  "/correlations",
	"get_flaky_tests":          "/flaky",
	"get_flaky_specs":          "/flaky-specs",
	"get_recent_failures":      "/recent-failures",
	"get_test_trend":           "/trend",
	"get_failure_screenshots":  "/failure-screenshots",
	"get_consecutive_failures": "/consecutive-failures",
	"search_errors":            "/search-errors",
}

// registerTools registers all MCP tools on the server. Every tool shares the
// same forwarding handler; the tool name selects the API route at call time.
func registerTools(s *server.MCPServer, p *APIProxy) {
	for _, tool := range toolCatalog() {
		s.AddTool(tool, handleToolCall(p))
	}
}

// toolCatalog returns the full tool catalog in a stable order. Defaults
// documented in the schemas (days, limit) are applied by the analytics API
// when the caller omits the argument, not synthesized locally.
func toolCatalog() []mcp.Tool {
	return []mcp.Tool{
		createGetTestHistoryTool(),
		createGetTestErrorsTool(),
		createGetFailurePatternsTool(),
		createGetCorrelatedFailuresTool(),
		createGetFlakyTestsTool(),
		createGetFlakySpecsTool(),
		createGetRecentFailuresTool(),
		createGetTestTrendTool(),
		createGetFailureScreenshotsTool(),
		createGetConsecutiveFailuresTool(),
		createSearchErrorsTool(),
	}
}

func createGetTestHistoryTool() mcp.Tool {
	return mcp.NewTool("get_test_history",
		mcp.WithDescription("Get run history for all tests in a spec file — status, duration, and run timestamps. Use this to see how a spec has behaved over time."),
		mcp.WithString("spec_file", mcp.Required(), mcp.Description("Spec file path (e.g., 'cypress/e2e/login.spec.js')")),
		mcp.WithString("test_title", mcp.Description("Filter to a single test title within the spec")),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("How many days of history to include (default: 30)")),
		mcp.WithNumber("limit", mcp.DefaultNumber(50), mcp.Description("Maximum runs to return (default: 50)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetTestErrorsTool() mcp.Tool {
	return mcp.NewTool("get_test_errors",
		mcp.WithDescription("Get error messages and stack traces for failed tests in a spec file, grouped by test."),
		mcp.WithString("spec_file", mcp.Required(), mcp.Description("Spec file path (e.g., 'cypress/e2e/login.spec.js')")),
		mcp.WithString("test_title", mcp.Description("Filter to a single test title within the spec")),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("How many days of failures to include (default: 30)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetFailurePatternsTool() mcp.Tool {
	return mcp.NewTool("get_failure_patterns",
		mcp.WithDescription("Detect recurring failure patterns in a spec file — repeated error signatures, time-of-day clustering, and environment correlation."),
		mcp.WithString("spec_file", mcp.Required(), mcp.Description("Spec file path (e.g., 'cypress/e2e/login.spec.js')")),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("Analysis window in days (default: 30)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetCorrelatedFailuresTool() mcp.Tool {
	return mcp.NewTool("get_correlated_failures",
		mcp.WithDescription("Find tests that tend to fail in the same runs as tests in the given spec file. Useful for spotting shared root causes."),
		mcp.WithString("spec_file", mcp.Required(), mcp.Description("Spec file path (e.g., 'cypress/e2e/login.spec.js')")),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("Analysis window in days (default: 30)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetFlakyTestsTool() mcp.Tool {
	return mcp.NewTool("get_flaky_tests",
		mcp.WithDescription("List the flakiest tests across the project, ranked by flake rate (tests that both passed and failed within the window)."),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("Analysis window in days (default: 30)")),
		mcp.WithNumber("limit", mcp.DefaultNumber(20), mcp.Description("Maximum tests to return (default: 20)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetFlakySpecsTool() mcp.Tool {
	return mcp.NewTool("get_flaky_specs",
		mcp.WithDescription("List spec files ranked by aggregate flakiness, so whole problem areas stand out rather than individual tests."),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("Analysis window in days (default: 30)")),
		mcp.WithNumber("limit", mcp.DefaultNumber(20), mcp.Description("Maximum specs to return (default: 20)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetRecentFailuresTool() mcp.Tool {
	return mcp.NewTool("get_recent_failures",
		mcp.WithDescription("Get the most recent test failures across the project with spec, title, error message, and run time."),
		mcp.WithNumber("days", mcp.DefaultNumber(7), mcp.Description("How many days back to look (default: 7)")),
		mcp.WithNumber("limit", mcp.DefaultNumber(50), mcp.Description("Maximum failures to return (default: 50)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetTestTrendTool() mcp.Tool {
	return mcp.NewTool("get_test_trend",
		mcp.WithDescription("Get pass/fail trend buckets for a spec file over time. Shows whether a spec is getting healthier or worse."),
		mcp.WithString("spec_file", mcp.Required(), mcp.Description("Spec file path (e.g., 'cypress/e2e/login.spec.js')")),
		mcp.WithString("test_title", mcp.Description("Filter to a single test title within the spec")),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("Trend window in days (default: 30)")),
		mcp.WithString("period", mcp.Enum("daily", "weekly", "monthly"), mcp.Description("Bucket granularity: daily, weekly, or monthly (default: daily)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetFailureScreenshotsTool() mcp.Tool {
	return mcp.NewTool("get_failure_screenshots",
		mcp.WithDescription("Get screenshot URLs captured at the moment of failure for tests in a spec file."),
		mcp.WithString("spec_file", mcp.Required(), mcp.Description("Spec file path (e.g., 'cypress/e2e/login.spec.js')")),
		mcp.WithString("test_title", mcp.Description("Filter to a single test title within the spec")),
		mcp.WithNumber("limit", mcp.DefaultNumber(20), mcp.Description("Maximum screenshots to return (default: 20)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createGetConsecutiveFailuresTool() mcp.Tool {
	return mcp.NewTool("get_consecutive_failures",
		mcp.WithDescription("Find tests currently on a consecutive-failure streak — consistently broken rather than flaky. These usually need a code fix, not a retry."),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("Analysis window in days (default: 30)")),
		mcp.WithNumber("min_streak", mcp.DefaultNumber(2), mcp.Description("Minimum consecutive failures to report (default: 2)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

func createSearchErrorsTool() mcp.Tool {
	return mcp.NewTool("search_errors",
		mcp.WithDescription("Full-text search over recorded error messages across all tests. Use this to find every test affected by a known error signature."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text (e.g., 'Timed out retrying', 'element is detached')")),
		mcp.WithNumber("days", mcp.DefaultNumber(30), mcp.Description("How many days back to search (default: 30)")),
		mcp.WithNumber("limit", mcp.DefaultNumber(20), mcp.Description("Maximum matches to return (default: 20)")),
		mcp.WithNumber("project_id", mcp.Description("Project ID. Uses the configured default project if not specified.")),
	)
}

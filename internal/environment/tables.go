// Package environment detects a project's entry-point runtime
// (Node.js vs. Cloudflare Workers) and flags reachable code paths that
// use APIs unavailable in that runtime, per §4.F.
package environment

// apiEntry pairs a literal API substring with a human description,
// scanned for via simple line-contains matching rather than AST
// analysis, matching the Rust original's approach exactly.
type apiEntry struct {
	API         string
	Description string
}

// workersAPIs will fail at runtime under Node.js.
var workersAPIs = []apiEntry{
	{"caches.default", "Cache API - Workers only"},
	{"caches.open", "Cache API - Workers only"},

	{"env.KV", "KV namespace binding"},
	{"env.R2", "R2 bucket binding"},
	{"env.D1", "D1 database binding"},
	{"env.AI", "Workers AI binding"},
	{"env.VECTORIZE", "Vectorize binding"},
	{"env.QUEUE", "Queue binding"},
	{"env.DO", "Durable Object binding"},

	{"ctx.waitUntil", "Execution context - Workers only"},
	{"waitUntil(", "Execution context - Workers only"},
	{"ctx.passThroughOnException", "Execution context - Workers only"},

	{"HTMLRewriter", "HTMLRewriter - Workers only"},
	{"WebSocketPair", "WebSocketPair - Workers only"},
}

// nodeAPIs will fail at runtime under Workers.
var nodeAPIs = []apiEntry{
	{"require('fs')", "Node.js fs module"},
	{"require('path')", "Node.js path module - use import instead"},
	{"require('child_process')", "Node.js child_process"},
	{"process.env", "Node.js process.env - use env bindings in Workers"},
	{"__dirname", "Node.js __dirname - not available in Workers"},
	{"__filename", "Node.js __filename - not available in Workers"},
	{"Buffer.from", "Node.js Buffer - use Uint8Array in Workers"},
}

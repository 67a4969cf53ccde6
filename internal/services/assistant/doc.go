// Package assistant exposes the complaint status assistant as MCP tools.
//
// The tools answer the same questions as the web status chat: where a
// complaint stands, and which complaints have been resolved. Every answer is
// read from the complaints API; nothing is cached here.
package assistant

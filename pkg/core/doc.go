// Package core provides a small, stable facade over scankey's internal
// pipeline for external integrations. It deliberately re-exports a
// narrow API surface so other tools can depend on a stable import path
// without reaching into internal packages.
//
// Example:
//
//	cfg := core.DefaultConfig()
//	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
//	res, err := core.Scan(ctx, cfg, core.ProviderOpenAI)
//	if err != nil { /* handle */ }
//	fmt.Println(res.LiveKeys)
package core

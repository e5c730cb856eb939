// Package urls holds the documentation links printed by the CLI.
//
// Usage:
//
//	import "github.com/muurk/smartconfig/internal/urls"
//
//	fmt.Printf("See %s\n", urls.SmartConfigGuide)
package urls

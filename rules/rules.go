// Package rules embeds the default rule documents shipped with the hooks.
package rules

import "embed"

//go:embed *.json
var FS embed.FS

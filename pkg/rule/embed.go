package rule

import "embed"

// builtinConfigFS embeds the default configuration.
//
//go:embed defaults/*.yml
var builtinConfigFS embed.FS

// defaultConfigPath is the embedded configuration applied before any
// project configuration.
const defaultConfigPath = "defaults/default.yml"

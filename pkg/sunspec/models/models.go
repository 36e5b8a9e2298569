// Package models bundles the SunSpec model definitions shipped with the
// engine. Callers may load their own definitions from any fs.FS instead.
package models

import "embed"

//go:embed *.json
var FS embed.FS

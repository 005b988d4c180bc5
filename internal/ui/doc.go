// Package ui holds the color themes shared by the table output and the
// dashboard, and the ANSI accessors used by the cli package.
package ui

// Package markdown discovers Markdown documents on a filesystem, parses
// their front matter into generic datasets, and renders their bodies to
// HTML with goldmark.
package markdown

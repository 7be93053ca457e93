// Package slides reads and edits Google Slides presentations.
package slides

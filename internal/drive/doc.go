// Package drive provides a read-only Google Drive client: file search with
// a structured query builder, metadata lookup and downloads to the local
// download directory. Google-native files (Docs, Sheets, Slides, Drawings)
// are exported to a regular format on download.
package drive

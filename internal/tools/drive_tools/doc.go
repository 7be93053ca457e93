// Package drive_tools provides MCP tools for Google Drive.
//
// Available tools:
//   - drive_search: find files by name, full text, MIME type or folder, or with a raw Drive query
//   - drive_get_file: get metadata for a specific file
//   - drive_download_file: save a file into the download directory
//
// Google-native files (Docs, Sheets, Slides, Drawings) have no binary
// content and are exported on download, by default as PDF, XLSX, PDF and
// PNG respectively.
//
// Example tool usage:
//
//	drive_search({
//	  name: "invoice",
//	  mimeType: "application/pdf",
//	  maxResults: 10
//	})
//
//	drive_download_file({fileId: "1AbC", format: "docx"})
package drive_tools

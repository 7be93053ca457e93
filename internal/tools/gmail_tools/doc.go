// Package gmail_tools provides MCP tools for Gmail.
//
// Read tools:
//   - gmail_search: search messages with Gmail query syntax
//   - gmail_get_message: read headers, the text body and the attachment list
//   - gmail_download_attachment: save an attachment into the download directory
//
// Write tools (not registered in read-only mode):
//   - gmail_send: send a plain text or HTML email, optionally as a reply
//
// Attachments are limited to 25MB (gmail.MaxAttachmentSize). Saved files
// never overwrite existing ones.
package gmail_tools
